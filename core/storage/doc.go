// Package storage connects asset-core to S3-compatible object storage.
//
// NewClient builds a MinIO client from Config. Client is the narrow slice of
// the MinIO API the publisher calls, so tests can swap in core/storage/mocks.
//
// Project scopes a Client to one bucket and the configured key prefix:
//
//   - Key: joins path parts below the prefix.
//   - Check: fails with ErrBucketMissing when the bucket does not exist.
//   - List: sizes of every object below a directory, keyed relative to it.
//   - PutFile: uploads a local file.
//   - Remove: bulk delete, returning how many keys went away.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	project := storage.NewProject(client, cfg.Storage.Bucket, cfg.Storage.Prefix)
//	remote, err := project.List(ctx, "assets")
package storage
