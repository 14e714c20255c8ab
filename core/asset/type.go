package asset

import (
	"path/filepath"
	"strings"
)

// Type is the content-type tag. Values are persisted as integers.
type Type uint16

// Content types. TypeNone marks files the catalog ignores.
const (
	TypeNone Type = iota
	TypeScene
	TypeMaterial
	TypeMesh
	TypeTexture
	TypeShader
	TypeAudio
	TypeScript
	TypePrefab
	TypeAnimation
	TypeFont
)

var typeNames = map[Type]string{
	TypeNone:      "None",
	TypeScene:     "Scene",
	TypeMaterial:  "Material",
	TypeMesh:      "Mesh",
	TypeTexture:   "Texture",
	TypeShader:    "Shader",
	TypeAudio:     "Audio",
	TypeScript:    "Script",
	TypePrefab:    "Prefab",
	TypeAnimation: "Animation",
	TypeFont:      "Font",
}

// extensionTypes maps lower-case file extensions to content types.
var extensionTypes = map[string]Type{
	".lunex":    TypeScene,
	".lumat":    TypeMaterial,
	".lumesh":   TypeMesh,
	".luprefab": TypePrefab,
	".png":      TypeTexture,
	".jpg":      TypeTexture,
	".jpeg":     TypeTexture,
	".bmp":      TypeTexture,
	".tga":      TypeTexture,
	".hdr":      TypeTexture,
	".lutex":    TypeTexture,
	".glsl":     TypeShader,
	".shader":   TypeShader,
	".wav":      TypeAudio,
	".mp3":      TypeAudio,
	".ogg":      TypeAudio,
	".luaudio":  TypeAudio,
	".cpp":      TypeScript,
	".h":        TypeScript,
	".cs":       TypeScript,
	".luanim":   TypeAnimation,
	".lufont":   TypeFont,
}

// canonicalExtensions is the extension used when writing a new file of a type.
var canonicalExtensions = map[Type]string{
	TypeScene:     ".lunex",
	TypeMaterial:  ".lumat",
	TypeMesh:      ".lumesh",
	TypeTexture:   ".lutex",
	TypeShader:    ".glsl",
	TypeAudio:     ".luaudio",
	TypeScript:    ".cpp",
	TypePrefab:    ".luprefab",
	TypeAnimation: ".luanim",
	TypeFont:      ".lufont",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Extension returns the canonical file extension for the type, or "".
func (t Type) Extension() string {
	return canonicalExtensions[t]
}

// ParseType resolves a type by name, case-insensitively. Unknown names yield TypeNone.
func ParseType(name string) Type {
	for t, n := range typeNames {
		if strings.EqualFold(n, name) {
			return t
		}
	}
	return TypeNone
}

// TypeFromExtension maps an extension (with or without the leading dot) to a type.
func TypeFromExtension(ext string) Type {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return extensionTypes[ext]
}

// TypeFromPath maps a file path to a type by its extension.
func TypeFromPath(path string) Type {
	return TypeFromExtension(filepath.Ext(path))
}

// Types returns every known type except TypeNone, in tag order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames)-1)
	for t := TypeScene; t <= TypeFont; t++ {
		out = append(out, t)
	}
	return out
}
