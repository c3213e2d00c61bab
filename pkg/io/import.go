package io

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

// ReadBoxes parses a box file from r.
//
// Every non-blank, non-comment line must hold exactly three integers. The
// returned slice keeps file order, which matters: solvers break ties by
// input position. A file with no boxes yields an empty slice and no error;
// the solvers reject empty input themselves.
//
// ReadBoxes does not close r.
func ReadBoxes(r io.Reader) ([]box.Box, error) {
	var boxes []box.Box
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		b, err := parseBox(text)
		if err != nil {
			return nil, errors.New(errors.GetCode(err), "line %d: %s", line, errors.UserMessage(err))
		}
		boxes = append(boxes, b)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read boxes")
	}
	return boxes, nil
}

func parseBox(text string) (box.Box, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return box.Box{}, errors.New(errors.ErrCodeInvalidFormat,
			"want 3 values (height width depth), got %d", len(fields))
	}
	var dims [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return box.Box{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "value %q is not an integer", f)
		}
		dims[i] = v
	}
	b := box.New(dims[0], dims[1], dims[2])
	if err := b.Validate(); err != nil {
		return box.Box{}, err
	}
	return b, nil
}

// ImportBoxes reads the box file at path.
// A missing file is reported as FILE_NOT_FOUND.
func ImportBoxes(path string) ([]box.Box, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBoxes(f)
}

// ReadSolution decodes a solution document from r and validates it.
func ReadSolution(r io.Reader) (Solution, error) {
	var s Solution
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Solution{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode solution")
	}
	if err := s.Validate(); err != nil {
		return Solution{}, err
	}
	return s, nil
}

// ImportSolution reads and validates the solution document at path.
func ImportSolution(path string) (Solution, error) {
	f, err := open(path)
	if err != nil {
		return Solution{}, err
	}
	defer f.Close()
	return ReadSolution(f)
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}
