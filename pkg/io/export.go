package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

// Solution is a solved tower as stored on disk and returned by the API.
type Solution struct {
	Algorithm string    `json:"algorithm"`
	Height    int       `json:"height"`
	Boxes     []box.Box `json:"boxes"` // bottom to top
}

// NewSolution builds a Solution for boxes, computing its height.
func NewSolution(algorithm string, boxes []box.Box) Solution {
	return Solution{
		Algorithm: algorithm,
		Height:    box.TotalHeight(boxes),
		Boxes:     boxes,
	}
}

// Validate checks that the boxes form a tower of the stated height.
func (s Solution) Validate() error {
	if err := box.ValidateAll(s.Boxes); err != nil {
		return err
	}
	if i := box.ChainBreak(s.Boxes); i >= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"box %d (%s) cannot rest on box %d (%s)", i+1, s.Boxes[i+1], i, s.Boxes[i])
	}
	if h := box.TotalHeight(s.Boxes); h != s.Height {
		return errors.New(errors.ErrCodeInvalidInput, "height is %d but boxes add up to %d", s.Height, h)
	}
	return nil
}

// WriteBoxes writes boxes to w in box-file format, one per line.
func WriteBoxes(boxes []box.Box, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, b := range boxes {
		if _, err := fmt.Fprintln(bw, b); err != nil {
			return fmt.Errorf("write boxes: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write boxes: %w", err)
	}
	return nil
}

// ExportBoxes writes boxes to a box file at path.
func ExportBoxes(boxes []box.Box, path string) error {
	return create(path, func(w io.Writer) error { return WriteBoxes(boxes, w) })
}

// WriteSolution encodes s as indented JSON.
func WriteSolution(s Solution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSolution writes s to a JSON file at path.
func ExportSolution(s Solution, path string) error {
	return create(path, func(w io.Writer) error { return WriteSolution(s, w) })
}

func create(path string, write func(io.Writer) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
