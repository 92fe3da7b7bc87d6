// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/model"
)

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree <checksum>",
	Short: "List the entries of a commit or tree",
	Args:  cobra.ExactArgs(1),
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
		treeKey, err := treeRootOf(ctx, store, key)
		if err != nil {
			wrapFatalln("resolve tree", err)
			return
		}
		if err := listTree(ctx, store, treeKey, ""); err != nil {
			wrapFatalln("list tree", err)
			return
		}
	},
}

func listTree(ctx context.Context, store cas.Store, key cas.Key, prefix string) error {
	tree, err := store.GetTree(ctx, key)
	if err != nil {
		return err
	}
	for i := range tree.Entries {
		e := &tree.Entries[i]
		name := prefix + e.Name
		switch e.Kind {
		case model.KindSymlink:
			fmt.Printf("%s %-7s %12s %s -> %s\n", e.Mode, e.Kind, "", name, e.LinkTarget)
		case model.KindDir:
			fmt.Printf("%s %-7s %12s %s/\n", e.Mode, e.Kind, shortHash(e.Hash), name)
			if treecasFlags.lstree.Recursive {
				childKey, err := cas.KeyFromString(e.Hash)
				if err != nil {
					return err
				}
				if err := listTree(ctx, store, childKey, name+"/"); err != nil {
					return err
				}
			}
		default:
			fmt.Printf("%s %-7s %12s %s\n", e.Mode, e.Kind, shortHash(e.Hash), name)
		}
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func init() {
	addRecursiveFlag(lsTreeCmd)
	rootCmd.AddCommand(lsTreeCmd)
}
