package utils

import (
	"path"
	"path/filepath"

	"github.com/kardianos/osext"
)

// GetAbsoluteDir resolves a path relative to the folder of the running
// executable. Absolute paths are returned unchanged.
func GetAbsoluteDir(relative string) string {
	if filepath.IsAbs(relative) {
		return relative
	}

	exfolder, err := osext.ExecutableFolder()
	Check(err, "Cannot get absolute dir for "+relative)

	return path.Join(exfolder, relative)
}
