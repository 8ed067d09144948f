// Package profile locates filter files inside a Thunderbird profile.
package profile

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"sort"

	"github.com/hack-pad/hackpadfs"
)

const (
	imapMailDir    = "ImapMail"
	filterFileName = "msgFilterRules.dat"
)

type FS interface {
	hackpadfs.FS
	hackpadfs.OpenFileFS
	hackpadfs.StatFS
}

// FilterFile is one msgFilterRules.dat found in the profile. Server is the
// ImapMail account directory it lives in.
type FilterFile struct {
	Path   string
	Server string
}

// Discover lists every account directory under <root>/ImapMail that contains
// a msgFilterRules.dat, in sorted order. Finding none is an error: the whole
// conversion has nothing to work with.
func Discover(fsys FS, root string) ([]FilterFile, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid profile directory: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", root)
	}

	mailDir := path.Join(root, imapMailDir)
	entries, err := iofs.ReadDir(fsys, mailDir)
	if err != nil {
		return nil, fmt.Errorf("no %s directory under %q: %w", imapMailDir, root, err)
	}

	var files []FilterFile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		filterPath := path.Join(mailDir, entry.Name(), filterFileName)
		if _, err := fsys.Stat(filterPath); err != nil {
			continue
		}
		files = append(files, FilterFile{Path: filterPath, Server: entry.Name()})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no %s found under %q", filterFileName, mailDir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Server < files[j].Server })
	return files, nil
}

func ReadFile(fsys FS, name string) (string, error) {
	f, err := fsys.OpenFile(name, os.O_RDONLY, os.ModePerm)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
