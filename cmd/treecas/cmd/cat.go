// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/model"
)

var catCmd = &cobra.Command{
	Use:   "cat <checksum> [path]",
	Short: "Stream a stored file's content to stdout",
	Long: `Stream file content to stdout.

With a single argument, the checksum must address a file object. With a path
argument, the checksum addresses a commit or tree, and the path names a file
inside it.
`,
	Args: cobra.RangeArgs(1, 2),
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

		fileKey := key
		if len(args) == 2 {
			treeKey, err := treeRootOf(ctx, store, key)
			if err != nil {
				wrapFatalln("resolve tree", err)
				return
			}
			entry, err := entryAt(ctx, store, treeKey, args[1])
			if err != nil {
				wrapFatalln("resolve path", err)
				return
			}
			if entry.Kind != model.KindFile {
				wrapFatalln(fmt.Sprintf("%q is not a regular file", args[1]), nil)
				return
			}
			fileKey, err = cas.KeyFromString(entry.Hash)
			if err != nil {
				wrapFatalln("parse entry checksum", err)
				return
			}
		}

		rdr, err := store.GetFile(ctx, fileKey)
		if err != nil {
			wrapFatalln("get file", err)
			return
		}
		defer rdr.Close()
		if _, err := io.Copy(os.Stdout, rdr); err != nil {
			wrapFatalln("stream content", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
