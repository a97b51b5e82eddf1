package utils

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
)

//InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

//ListSubDirs returns the names of the directories directly under given path which start with prefix
func ListSubDirs(path, prefix string) ([]string, error) {
	files, err := ioutil.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("ListSubDirs: Error, got '%v'", err)
	}

	names := make([]string, 0)
	for _, f := range files {
		if f.IsDir() && strings.HasPrefix(f.Name(), prefix) {
			names = append(names, f.Name())
		}
	}

	return names, nil
}

//TrimExt returns the base name of given path without its extension
func TrimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
