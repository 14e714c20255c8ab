package loader

import (
	"errors"
	"time"

	"asset-core/core/asset"
)

var (
	// ErrQueueFull is reported when a job is submitted while every queue slot is taken.
	ErrQueueFull = errors.New("load queue is full")
	// ErrClosed is reported for jobs submitted to or left queued in a shut down loader.
	ErrClosed = errors.New("loader is closed")
)

// Job is one asynchronous load request. Fields are guarded by the loader.
type Job struct {
	ID   asset.ID
	Path string
	Type asset.Type

	load    func() (asset.Asset, error)
	deliver func(asset.Asset, error)

	submitted time.Time
	started   bool
	done      bool
	canceled  bool
	result    asset.Asset
	err       error
}

func (j *Job) status() string {
	switch {
	case j.canceled:
		return "canceled"
	case errors.Is(j.err, ErrQueueFull):
		return "rejected"
	case errors.Is(j.err, ErrClosed):
		return "closed"
	case j.err != nil:
		return "error"
	default:
		return "ok"
	}
}
