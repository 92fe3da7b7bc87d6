// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/dlogger"
	"github.com/treecas/treecas/pkg/model"
	"github.com/treecas/treecas/pkg/storage/localfs"
)

type flagsT struct {
	root struct {
		logLevel string
		metrics  bool
	}
	store struct {
		Path string
	}
	checkout struct {
		Subpath            string
		Mode               string
		Overwrite          string
		Fsync              bool
		ForceCopy          bool
		ForceCopyZerosized bool
	}
	lstree struct {
		Recursive bool
	}
}

var treecasFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&treecasFlags.root.logLevel, loglevel, "",
		"The logging level. Levels by increasing order of verbosity: none, error, info, debug")
	return loglevel
}

func addStoreFlag(cmd *cobra.Command) string {
	s := "store"
	cmd.PersistentFlags().StringVar(&treecasFlags.store.Path, s, "",
		"Path to the object store root, holding the objects/ fan-out")
	return s
}

func addMetricsFlag(cmd *cobra.Command) string {
	c := "metrics"
	cmd.PersistentFlags().BoolVar(&treecasFlags.root.metrics, c, false,
		"Toggle metrics collection")
	return c
}

func addSubpathFlag(cmd *cobra.Command) string {
	c := "subpath"
	cmd.Flags().StringVar(&treecasFlags.checkout.Subpath, c, ".",
		"Relative path under the destination directory to materialize the tree at")
	return c
}

func addModeFlag(cmd *cobra.Command) string {
	c := "mode"
	cmd.Flags().StringVar(&treecasFlags.checkout.Mode, c, "none",
		"Checkout mode: none, user, hardlink, hardlink-user")
	return c
}

func addOverwriteFlag(cmd *cobra.Command) string {
	c := "overwrite"
	cmd.Flags().StringVar(&treecasFlags.checkout.Overwrite, c, "none",
		"Policy on existing destination entries: none, add-files")
	return c
}

func addFsyncFlag(cmd *cobra.Command) string {
	c := "fsync"
	cmd.Flags().BoolVar(&treecasFlags.checkout.Fsync, c, false,
		"Flush checked out files and directories to stable storage")
	return c
}

func addForceCopyFlag(cmd *cobra.Command) string {
	c := "force-copy"
	cmd.Flags().BoolVar(&treecasFlags.checkout.ForceCopy, c, false,
		"Always copy file content, never hardlink")
	return c
}

func addForceCopyZerosizedFlag(cmd *cobra.Command) string {
	c := "force-copy-zerosized"
	cmd.Flags().BoolVar(&treecasFlags.checkout.ForceCopyZerosized, c, false,
		"Always copy zero-length files, never hardlink them")
	return c
}

func addRecursiveFlag(cmd *cobra.Command) string {
	c := "recursive"
	cmd.Flags().BoolVar(&treecasFlags.lstree.Recursive, c, false,
		"Recurse into subdirectories")
	return c
}

// getLogger builds the logger once per command invocation.
func getLogger(flags flagsT) *zap.Logger {
	level := flags.root.logLevel
	if level == "" {
		level = dlogger.LogLevelInfo
	}
	l, err := dlogger.GetLogger(level)
	if err != nil {
		wrapFatalln("set log level", err)
		return nil
	}
	return l
}

// paramsToStore opens the object store named by flags and config.
func paramsToStore(flags flagsT) (cas.Store, error) {
	fs := afero.NewBasePathFs(afero.NewOsFs(), flags.store.Path)
	return cas.New(
		cas.Backend(localfs.New(fs)),
		cas.Logger(getLogger(flags)),
		cas.WithMetrics(flags.root.metrics),
	)
}

// treeRootOf resolves a commit or tree checksum to its tree key.
func treeRootOf(ctx context.Context, store cas.Store, key cas.Key) (cas.Key, error) {
	view, err := store.Resolve(ctx, key)
	if err != nil {
		return cas.Key{}, err
	}
	switch view.Kind {
	case cas.KindTree:
		return key, nil
	case cas.KindCommit:
		return cas.KeyFromString(view.Commit.Tree)
	default:
		return cas.Key{}, &cas.WrongKindError{Key: key, Want: cas.KindTree, Got: view.Kind}
	}
}

// entryAt descends a tree along a relative path and returns the entry found.
func entryAt(ctx context.Context, store cas.Store, root cas.Key, relpath string) (*model.Entry, error) {
	comps := strings.Split(strings.Trim(relpath, "/"), "/")
	cur := root
	for i, comp := range comps {
		tree, err := store.GetTree(ctx, cur)
		if err != nil {
			return nil, err
		}
		var found *model.Entry
		for j := range tree.Entries {
			if tree.Entries[j].Name == comp {
				found = &tree.Entries[j]
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("no entry %q in tree", strings.Join(comps[:i+1], "/"))
		}
		if i == len(comps)-1 {
			return found, nil
		}
		if found.Kind != model.KindDir {
			return nil, fmt.Errorf("%q is not a directory", strings.Join(comps[:i+1], "/"))
		}
		cur, err = cas.KeyFromString(found.Hash)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("empty path")
}
