// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/core"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <checksum> <dest-dir>",
	Short: "Materialize a commit or tree into a directory",
	Long: `Materialize the tree addressed by a checksum under a destination directory.

The checksum may name a commit, which is resolved to its root tree, or a tree.
The destination directory is created when missing. With --subpath the tree is
placed under a relative path inside the destination instead of at its root.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		key, err := cas.KeyFromString(args[0])
		if err != nil {
			wrapFatalln("parse checksum", err)
			return
		}
		store, err := paramsToStore(treecasFlags)
		if err != nil {
			wrapFatalln("open object store", err)
			return
		}

		mode, err := core.ParseMode(treecasFlags.checkout.Mode)
		if err != nil {
			wrapFatalln("parse checkout mode", err)
			return
		}
		overwrite, err := core.ParseOverwriteMode(treecasFlags.checkout.Overwrite)
		if err != nil {
			wrapFatalln("parse overwrite mode", err)
			return
		}

		if err := os.MkdirAll(args[1], 0755); err != nil {
			wrapFatalln("create destination directory", err)
			return
		}
		dest, err := core.OpenDir(args[1])
		if err != nil {
			wrapFatalln("open destination directory", err)
			return
		}
		defer dest.Close()

		chk := core.New(
			core.ObjectStore(store),
			core.CheckoutMode(mode),
			core.Overwrite(overwrite),
			core.EnableFsync(treecasFlags.checkout.Fsync),
			core.ForceCopy(treecasFlags.checkout.ForceCopy),
			core.ForceCopyZerosized(treecasFlags.checkout.ForceCopyZerosized),
			core.WithDevInoCache(core.NewDevInoCache()),
			core.Logger(getLogger(treecasFlags)),
			core.WithMetrics(treecasFlags.root.metrics),
		)
		if err := core.CheckoutAt(ctx, chk, dest, treecasFlags.checkout.Subpath, key); err != nil {
			wrapFatalln("checkout", err)
			return
		}
	},
}

func init() {
	addSubpathFlag(checkoutCmd)
	addModeFlag(checkoutCmd)
	addOverwriteFlag(checkoutCmd)
	addFsyncFlag(checkoutCmd)
	addForceCopyFlag(checkoutCmd)
	addForceCopyZerosizedFlag(checkoutCmd)

	rootCmd.AddCommand(checkoutCmd)
}
