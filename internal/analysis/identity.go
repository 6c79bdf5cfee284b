package analysis

import (
	"path/filepath"
	"strings"
)

// Identity is derived once from the input path.
type Identity struct {
	FilePath  string
	FileName  string
	Directory string
	Extension string
}

// NewIdentity splits path into its name, parent directory and extension. The
// extension is the lower-cased text after the last "." of the file name, empty
// when the name has no dot.
func NewIdentity(path string) Identity {
	dir, name := filepath.Split(path)
	if dir != "" {
		dir = filepath.Clean(dir)
	}
	return Identity{
		FilePath:  path,
		FileName:  name,
		Directory: dir,
		Extension: extensionOf(name),
	}
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
