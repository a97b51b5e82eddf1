package utils

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//FileNumber returns the leading integer of a frame file name: "12-left.jpg" and "12.png" are both 12
func FileNumber(name string) (int, error) {
	base := filepath.Base(name)
	head := strings.Split(strings.Split(base, "-")[0], ".")[0]
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("FileNumber: '%s' does not start with a frame number", base)
	}

	return n, nil
}

//FrameSequence returns the frame image paths in given directory ordered by their file number.
//Annotation and video files are skipped, as are files whose name has no leading number.
func FrameSequence(dir string) ([]string, error) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("FrameSequence: Error, got '%v'", err)
	}

	type numbered struct {
		path string
		n    int
	}

	seq := make([]numbered, 0, len(files))
	for _, f := range files {
		if f.IsDir() || InSlice(strings.ToLower(filepath.Ext(f.Name())), SkippedExtensions) {
			continue
		}

		n, err := FileNumber(f.Name())
		if err != nil {
			continue
		}
		seq = append(seq, numbered{path: filepath.Join(dir, f.Name()), n: n})
	}

	sort.SliceStable(seq, func(i, j int) bool { return seq[i].n < seq[j].n })

	paths := make([]string, len(seq))
	for i, s := range seq {
		paths[i] = s.path
	}

	return paths, nil
}
