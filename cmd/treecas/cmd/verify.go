// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"context"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/core"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <checksum>",
	Short: "Verify the integrity of all objects reachable from a commit or tree",
	Long: `Walk the commit or tree addressed by a checksum and read back every reachable
object, so that each one is integrity-checked against its checksum. The first
missing or corrupt object aborts the walk and is reported with its path.
`,
	Args: cobra.ExactArgs(1),
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

		res, err := core.Verify(ctx, store, key)
		if err != nil {
			wrapFatalln("verify", err)
			return
		}
		infoLogger.Printf("verified %d commits, %d trees, %d files (%s)",
			res.Commits, res.Trees, res.Files, units.HumanSize(float64(res.Bytes)))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
