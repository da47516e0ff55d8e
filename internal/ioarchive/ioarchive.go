// Package ioarchive locates raw ERA5-Land files and turns them into a
// local NetCDF path. Raw files may be bare NetCDF or zip archives
// regardless of their extension.
package ioarchive

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/klauspost/compress/zip"
)

var zipMagic = [][]byte{
	[]byte("PK\x03\x04"),
	// empty archive
	[]byte("PK\x05\x06"),
}

// Locate returns the raw file of a region month. The .nc candidate is
// preferred over .zip. When none exists the error has the
// SourceAbsentError code.
func Locate(root, region string, year, month int) (string, error) {
	candidates := partition.RawCandidates(root, region, year, month)
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", OpenError(path, err)
		}
	}
	return "", SourceAbsentError(candidates[0])
}

// Resolve returns a local NetCDF path for a raw file and a release
// function that removes temporary files. Release must be called on
// every path after the file is not needed, it is never nil.
func Resolve(path string) (string, func(), error) {
	noop := func() {}

	isZip, err := IsZip(path)
	if err != nil {
		return "", noop, err
	}
	if !isZip {
		return path, noop, nil
	}

	dir, err := os.MkdirTemp("", "agrimart-raw-*")
	if err != nil {
		return "", noop, OpenError(path, err)
	}
	release := func() { _ = os.RemoveAll(dir) }

	local, err := extractGrid(path, dir)
	if err != nil {
		release()
		return "", noop, err
	}
	return local, release, nil
}

// IsZip detects a zip archive by its signature.
func IsZip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, OpenError(path, err)
	}
	defer f.Close()

	head := make([]byte, 4)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, OpenError(path, err)
	}
	head = head[:n]
	for _, m := range zipMagic {
		if bytes.Equal(head, m) {
			return true, nil
		}
	}
	return false, nil
}

// extractGrid writes the first .nc member of an archive into dir.
func extractGrid(path, dir string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", OpenError(path, err)
	}
	defer r.Close()

	var members []string
	for _, f := range r.File {
		members = append(members, f.Name)
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".nc") {
			continue
		}
		return extractMember(path, f, dir)
	}
	return "", NoGridError(path, members)
}

func extractMember(path string, f *zip.File, dir string) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", OpenError(path, err)
	}
	defer src.Close()

	// members can be nested, only the base name is kept
	local := filepath.Join(dir, filepath.Base(f.Name))
	dst, err := os.Create(local)
	if err != nil {
		return "", OpenError(path, err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		return "", OpenError(path, err)
	}
	if err = dst.Close(); err != nil {
		return "", OpenError(path, err)
	}
	return local, nil
}
