// Copyright © 2026 TreeCAS Authors

package core

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/metrics"
)

// Mode selects how entry metadata is applied, and whether the engine may
// hardlink from the devino cache instead of copying content.
type Mode int

const (
	// ModeNone preserves source modes, and ownership when running privileged
	ModeNone Mode = iota

	// ModeUser strips privileged mode bits and skips ownership and xattrs,
	// for checkouts by unprivileged users
	ModeUser

	// ModeHardlink behaves like ModeNone and hardlinks from the devino
	// cache when an identical file is already on disk
	ModeHardlink

	// ModeHardlinkUser behaves like ModeUser and hardlinks from the devino cache
	ModeHardlinkUser
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeUser:
		return "user"
	case ModeHardlink:
		return "hardlink"
	case ModeHardlinkUser:
		return "hardlink-user"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps the CLI spelling of a checkout mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none", "":
		return ModeNone, nil
	case "user":
		return ModeUser, nil
	case "hardlink":
		return ModeHardlink, nil
	case "hardlink-user":
		return ModeHardlinkUser, nil
	default:
		return ModeNone, fmt.Errorf("unknown checkout mode %q", s)
	}
}

func (m Mode) allowsHardlink() bool {
	return m == ModeHardlink || m == ModeHardlinkUser
}

func (m Mode) userSemantics() bool {
	return m == ModeUser || m == ModeHardlinkUser
}

// OverwriteMode selects the policy when a destination entry already exists.
type OverwriteMode int

const (
	// OverwriteNone errors out on any conflict
	OverwriteNone OverwriteMode = iota

	// OverwriteAddFiles merges into existing directories, replaces regular
	// files and symlinks, and leaves unrelated existing entries untouched
	OverwriteAddFiles
)

func (m OverwriteMode) String() string {
	switch m {
	case OverwriteNone:
		return "none"
	case OverwriteAddFiles:
		return "add-files"
	default:
		return fmt.Sprintf("overwrite(%d)", int(m))
	}
}

// ParseOverwriteMode maps the CLI spelling of an overwrite mode
func ParseOverwriteMode(s string) (OverwriteMode, error) {
	switch s {
	case "none", "":
		return OverwriteNone, nil
	case "add-files":
		return OverwriteAddFiles, nil
	default:
		return OverwriteNone, fmt.Errorf("unknown overwrite mode %q", s)
	}
}

// Checkout bundles the configuration of checkout operations. A Checkout is
// immutable once built and may be reused for several CheckoutAt calls; only
// the attached DevInoCache carries state across calls.
type Checkout struct {
	store              cas.Store
	mode               Mode
	overwrite          OverwriteMode
	enableFsync        bool
	forceCopy          bool
	forceCopyZerosized bool
	devino             *DevInoCache
	filter             Filter
	l                  *zap.Logger

	metrics.Enable
	m *M
}

func defaultsForCheckout() *Checkout {
	return &Checkout{
		mode:      ModeNone,
		overwrite: OverwriteNone,
		l:         zap.NewNop(),
	}
}

// New builds a checkout configuration. All fields have working defaults
// except the object store, which is required.
func New(opts ...Option) *Checkout {
	c := defaultsForCheckout()
	for _, apply := range opts {
		apply(c)
	}
	if c.MetricsEnabled() {
		c.m = metrics.EnsureMetrics("core", &M{}).(*M)
	}
	return c
}

// Option to configure checkout operations
type Option func(*Checkout)

// ObjectStore sets the store commits and trees are read from
func ObjectStore(store cas.Store) Option {
	return func(c *Checkout) {
		c.store = store
	}
}

// CheckoutMode sets how metadata is applied and whether hardlinks are allowed
func CheckoutMode(m Mode) Option {
	return func(c *Checkout) {
		c.mode = m
	}
}

// Overwrite sets the policy on existing destination entries
func Overwrite(m OverwriteMode) Option {
	return func(c *Checkout) {
		c.overwrite = m
	}
}

// EnableFsync flushes written files, and directories at subtree completion,
// to stable storage before reporting success. Trades throughput for
// crash-consistency.
func EnableFsync(enabled bool) Option {
	return func(c *Checkout) {
		c.enableFsync = enabled
	}
}

// ForceCopy disables hardlinking entirely, even on devino cache hits
func ForceCopy(enabled bool) Option {
	return func(c *Checkout) {
		c.forceCopy = enabled
	}
}

// ForceCopyZerosized disables hardlinking for zero-length files only
func ForceCopyZerosized(enabled bool) Option {
	return func(c *Checkout) {
		c.forceCopyZerosized = enabled
	}
}

// WithDevInoCache attaches a shared device/inode cache. The engine borrows
// the cache for the duration of the call: its lifecycle belongs to the caller.
func WithDevInoCache(cache *DevInoCache) Option {
	return func(c *Checkout) {
		c.devino = cache
	}
}

// WithFilter sets a per-path decision callback
func WithFilter(f Filter) Option {
	return func(c *Checkout) {
		c.filter = f
	}
}

// Logger sets a logger for checkout operations
func Logger(l *zap.Logger) Option {
	return func(c *Checkout) {
		if l != nil {
			c.l = l
		}
	}
}

// WithMetrics toggles metrics collection on checkout operations
func WithMetrics(enabled bool) Option {
	return func(c *Checkout) {
		c.EnableMetrics(enabled)
	}
}
