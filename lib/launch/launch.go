// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os/user"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/jira-docker/entrypoint/lib/config"
	"github.com/jira-docker/entrypoint/lib/fault"
	"github.com/jira-docker/entrypoint/lib/fsperm"
)

// Options describes the application to start.
type Options struct {
	// StartScript is the absolute path of the start command.
	StartScript string

	// Args are appended to StartScript unchanged.
	Args []string

	// Environ is the environment the application receives.
	Environ []string

	// Home is the application's data directory.
	Home string

	// HomeMode is applied to every entry under Home when privileged.
	HomeMode fs.FileMode

	// Owner is the runtime user and group.
	Owner fsperm.Owner

	// PrivilegeDrop is config.DropSetuid or config.DropSu. Empty
	// selects config.DropSetuid.
	PrivilegeDrop string

	// SuPath is the su binary for config.DropSu.
	SuPath string
}

// Command is a fully resolved exec call.
type Command struct {
	Path    string
	Argv    []string
	Environ []string

	// Identity is the uid/gid to switch to before exec. Nil means the
	// current identity is kept.
	Identity *fsperm.IDs
}

// String renders the command line for logs and diagnostics.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// ExecFunc replaces the process image. It only returns on failure.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// Launcher performs the final steps of startup.
type Launcher struct {
	logger      *slog.Logger
	exec        ExecFunc
	geteuid     func() int
	setIdentity func(ids fsperm.IDs) error

	// applyTree is the bulk ownership fix.
	applyTree func(root string, ids fsperm.IDs, mode fs.FileMode) error
}

// System holds the process-level calls a Launcher makes. Nil fields
// select the real system call.
type System struct {
	// Exec replaces the process image. Tests substitute a recorder so
	// they can capture the arguments without actually exec'ing.
	Exec ExecFunc

	// Geteuid reports the effective uid.
	Geteuid func() int

	// SetIdentity switches the process to the given ids.
	SetIdentity func(ids fsperm.IDs) error
}

// New returns a Launcher using the real system calls.
func New(logger *slog.Logger) *Launcher {
	return NewWithSystem(logger, System{})
}

// NewWithSystem returns a Launcher using the calls in system.
func NewWithSystem(logger *slog.Logger, system System) *Launcher {
	launcher := &Launcher{
		logger:      logger,
		exec:        system.Exec,
		geteuid:     system.Geteuid,
		setIdentity: system.SetIdentity,
		applyTree:   fsperm.ApplyTree,
	}
	if launcher.exec == nil {
		launcher.exec = unix.Exec
	}
	if launcher.geteuid == nil {
		launcher.geteuid = unix.Geteuid
	}
	if launcher.setIdentity == nil {
		launcher.setIdentity = setIdentity
	}
	return launcher
}

// Privileged reports whether the process runs as the superuser.
func (l *Launcher) Privileged() bool {
	return l.geteuid() == 0
}

// FixPermissions re-owns opts.Home recursively when privileged. It
// logs a warning and does nothing otherwise.
func (l *Launcher) FixPermissions(opts Options) error {
	if !l.Privileged() {
		l.logger.Warn("container not started as root; ownership fix and privilege drop skipped",
			"home", opts.Home,
		)
		return nil
	}

	ids, err := fsperm.Resolve(opts.Owner)
	if err != nil {
		return fault.Wrapf(err, "runtime owner %s", opts.Owner)
	}

	l.logger.Info("fixing ownership",
		"root", opts.Home,
		"user", opts.Owner.User,
		"group", opts.Owner.Group,
		"mode", fmt.Sprintf("%04o", opts.HomeMode),
	)
	if err := l.applyTree(opts.Home, ids, opts.HomeMode); err != nil {
		return fault.Wrapf(err, "fixing ownership of %s", opts.Home)
	}
	return nil
}

// Resolve builds the exec call for opts without performing it.
func (l *Launcher) Resolve(opts Options) (Command, error) {
	start := append([]string{opts.StartScript}, opts.Args...)

	if !l.Privileged() {
		return Command{Path: opts.StartScript, Argv: start, Environ: opts.Environ}, nil
	}

	switch opts.PrivilegeDrop {
	case config.DropSu:
		return Command{
			Path:    opts.SuPath,
			Argv:    []string{opts.SuPath, opts.Owner.User, "-c", shellJoin(start)},
			Environ: opts.Environ,
		}, nil
	case config.DropSetuid, "":
		ids, err := fsperm.Resolve(opts.Owner)
		if err != nil {
			return Command{}, fault.New(fault.PrivilegeError, fmt.Errorf("runtime owner %s: %w", opts.Owner, err))
		}
		return Command{
			Path:     opts.StartScript,
			Argv:     start,
			Environ:  userEnviron(opts.Environ, opts.Owner.User),
			Identity: &ids,
		}, nil
	default:
		return Command{}, fault.Newf(fault.PrivilegeError, "unknown privilege drop strategy %q", opts.PrivilegeDrop)
	}
}

// Exec replaces the process with the start command. It returns only on
// failure.
func (l *Launcher) Exec(opts Options) error {
	command, err := l.Resolve(opts)
	if err != nil {
		return err
	}

	// The identity switch and the exec stay on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if command.Identity != nil {
		l.logger.Info("dropping privileges",
			"user", opts.Owner.User,
			"uid", command.Identity.UID,
			"gid", command.Identity.GID,
		)
		if err := l.setIdentity(*command.Identity); err != nil {
			return fault.New(fault.PrivilegeError, fmt.Errorf("switching to %s before exec %s: %w", opts.Owner, command.Path, err))
		}
	}

	l.logger.Info("exec", "command", command.Path, "argv", command.Argv)
	err = l.exec(command.Path, command.Argv, command.Environ)
	return fault.New(fault.LaunchError, fmt.Errorf("exec %s: %w", command, err))
}

// setIdentity drops supplementary groups, then the group, then the
// user. Once the uid changes the process can no longer change its
// groups. The syscall package's setters apply to every thread of the
// process; unix.Setgroups would only change the calling thread.
func setIdentity(ids fsperm.IDs) error {
	if err := syscall.Setgroups([]int{ids.GID}); err != nil {
		return fmt.Errorf("setgroups: %w", err)
	}
	if err := syscall.Setgid(ids.GID); err != nil {
		return fmt.Errorf("setgid: %w", err)
	}
	if err := syscall.Setuid(ids.UID); err != nil {
		return fmt.Errorf("setuid: %w", err)
	}
	return nil
}

// userEnviron returns environ with HOME, USER and LOGNAME describing
// name, as su would set them. environ is returned unchanged when name
// has no passwd entry.
func userEnviron(environ []string, name string) []string {
	account, err := user.Lookup(name)
	if err != nil {
		return environ
	}
	overrides := map[string]string{
		"HOME":    account.HomeDir,
		"USER":    account.Username,
		"LOGNAME": account.Username,
	}
	result := slices.DeleteFunc(slices.Clone(environ), func(entry string) bool {
		key, _, _ := strings.Cut(entry, "=")
		_, overridden := overrides[key]
		return overridden
	})
	for _, key := range []string{"HOME", "USER", "LOGNAME"} {
		result = append(result, key+"="+overrides[key])
	}
	return result
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// shellJoin quotes each argument for sh -c and joins them with spaces.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if shellSafe.MatchString(arg) {
			quoted[i] = arg
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
