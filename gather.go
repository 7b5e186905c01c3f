package indexbmp

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/indexbmp/archive"
)

func readFile(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ioutil.ReadAll(f)
}

// Gather builds a Batch from a list of files and directories. Named files
// are always included and checked when converted; directories are walked
// for images, skipping hidden entries and anything over MaxImageSize. Entry
// names are relative to the directory they were found in, and two entries
// that would be written to the same output file are an error.
func Gather(paths ...string) (Batch, error) {
	var b Batch
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return Batch{}, newError(InputError, p, err)
		}

		if !info.IsDir() {
			data, err := readFile(p)
			if err != nil {
				return Batch{}, newError(InputError, p, err)
			}
			b.Entries = append(b.Entries, archive.Entry{Name: filepath.Base(p), Data: data})
			continue
		}

		base := p
		if err := filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if !archive.IsImage(file) || info.Size() > MaxImageSize {
				return nil
			}

			data, err := readFile(file)
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(base, file)
			if err != nil {
				return err
			}
			b.Entries = append(b.Entries, archive.Entry{Name: filepath.ToSlash(rel), Data: data})

			return nil
		}); err != nil {
			return Batch{}, newError(InputError, p, err)
		}
	}

	if len(b.Entries) == 0 {
		return Batch{}, newError(InputError, "", errEmptyBatch)
	}

	if err := checkNames(b.Entries); err != nil {
		return Batch{}, err
	}

	return b, nil
}
