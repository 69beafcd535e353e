// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package fsperm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/jira-docker/entrypoint/lib/fault"
)

// Owner names a user and group, as given in the environment.
type Owner struct {
	User  string
	Group string
}

// Root is the owner of files generated under the installation
// directory.
var Root = Owner{User: "root", Group: "root"}

func (o Owner) String() string { return o.User + ":" + o.Group }

// IDs is a resolved numeric owner.
type IDs struct {
	UID int
	GID int
}

// Resolve looks up the numeric ids for owner. A purely numeric name is
// used as the id directly when no account of that name exists, which
// lets containers run with an arbitrary --user uid.
func Resolve(owner Owner) (IDs, error) {
	uid, err := lookupUser(owner.User)
	if err != nil {
		return IDs{}, fault.New(fault.FilesystemError, err)
	}
	gid, err := lookupGroup(owner.Group)
	if err != nil {
		return IDs{}, fault.New(fault.FilesystemError, err)
	}
	return IDs{UID: uid, GID: gid}, nil
}

func lookupUser(name string) (int, error) {
	if name == "" {
		return 0, errors.New("empty user name")
	}
	if name == "root" {
		return 0, nil
	}
	account, err := user.Lookup(name)
	if err != nil {
		if id, numericErr := strconv.Atoi(name); numericErr == nil && id >= 0 {
			return id, nil
		}
		return 0, fmt.Errorf("lookup user %q: %w", name, err)
	}
	id, err := strconv.Atoi(account.Uid)
	if err != nil {
		return 0, fmt.Errorf("parse uid %q: %w", account.Uid, err)
	}
	return id, nil
}

func lookupGroup(name string) (int, error) {
	if name == "" {
		return 0, errors.New("empty group name")
	}
	if name == "root" {
		return 0, nil
	}
	group, err := user.LookupGroup(name)
	if err != nil {
		if id, numericErr := strconv.Atoi(name); numericErr == nil && id >= 0 {
			return id, nil
		}
		return 0, fmt.Errorf("lookup group %q: %w", name, err)
	}
	id, err := strconv.Atoi(group.Gid)
	if err != nil {
		return 0, fmt.Errorf("parse gid %q: %w", group.Gid, err)
	}
	return id, nil
}

// Apply sets the owner and mode of exactly path. When path is a
// symbolic link only the link itself is re-owned.
func Apply(path string, ids IDs, mode fs.FileMode) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fault.New(fault.FilesystemError, err)
	}
	return applyEntry(path, info.Mode().Type(), ids, mode)
}

// ApplyTree sets the owner and mode of root and of every directory and
// file beneath it. The walk continues past individual failures and
// reports all of them together; a root that cannot be read at all is
// reported immediately.
func ApplyTree(root string, ids IDs, mode fs.FileMode) error {
	if _, err := os.Lstat(root); err != nil {
		return fault.New(fault.FilesystemError, err)
	}

	var walkErrors []error
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			walkErrors = append(walkErrors, fault.New(fault.FilesystemError, fmt.Errorf("%s: %w", path, err)))
			return nil
		}
		if applyErr := applyEntry(path, entry.Type(), ids, mode); applyErr != nil {
			walkErrors = append(walkErrors, applyErr)
		}
		return nil
	})
	if err != nil {
		return fault.New(fault.FilesystemError, fmt.Errorf("walking %s: %w", root, err))
	}
	return joinFaults(walkErrors)
}

func applyEntry(path string, kind fs.FileMode, ids IDs, mode fs.FileMode) error {
	if err := unix.Lchown(path, ids.UID, ids.GID); err != nil {
		return classify(&fs.PathError{Op: "chown", Path: path, Err: err})
	}
	if kind&fs.ModeSymlink != 0 {
		return nil
	}
	if err := os.Chmod(path, mode); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return fault.New(fault.PrivilegeError, err)
	}
	return fault.New(fault.FilesystemError, err)
}

// joinFaults joins errs, keeping PrivilegeError as the overall kind
// when any entry failed for lack of privilege.
func joinFaults(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	kind := fault.FilesystemError
	for _, err := range errs {
		if fault.KindOf(err) == fault.PrivilegeError {
			kind = fault.PrivilegeError
			break
		}
	}
	return fault.New(kind, errors.Join(errs...))
}
