// Package loader decodes on-disk container formats into the in-memory
// inputs the extraction pipelines consume: XYZ text files into point sets
// and grayscale images into intensity grids. Decode failures are surfaced
// unchanged; the pipelines never interpret partially-decoded data.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/geoagent-data/terrain.report/internal/lidar"
)

// ErrDecode wraps all loader parse failures so callers can distinguish
// malformed uploads from pipeline errors.
var ErrDecode = errors.New("loader: decode failed")

// ParsePoints reads an XYZ text stream: one point per line, three
// whitespace- or comma-separated coordinates, '#' starting a comment line.
// Blank lines are skipped.
func ParsePoints(r io.Reader) ([]lidar.Point3D, error) {
	var points []lidar.Point3D

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 coordinates, got %d: %w", lineNo, len(fields), ErrDecode)
		}

		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad coordinate %q: %w", lineNo, fields[i], ErrDecode)
			}
			coords[i] = v
		}
		points = append(points, lidar.Point3D{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	return points, nil
}

// LoadPoints reads an XYZ text file from disk.
func LoadPoints(path string) ([]lidar.Point3D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open point file: %w", err)
	}
	defer f.Close()
	return ParsePoints(f)
}
