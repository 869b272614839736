package main

import (
	"github.com/spf13/cobra"

	v8b "github.com/mgenware/v8-builder"
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone V8 and its dependencies using depot_tools",
	Long: `Clones depot_tools, fetches the V8 source tree, checks out the requested
version and syncs its dependencies with gclient. Steps that are already
done are skipped, so clone can be re-run to switch versions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		version, _ := cmd.Flags().GetString("version")
		if version == "" {
			version = cfg.ResolveVersion()
		}
		useBundle, _ := cmd.Flags().GetBool("bootstrap-archive")

		t := v8b.CreateDefaultTunnel()
		return v8b.RunCheckout(t, &v8b.CheckoutOptions{
			Root:         cfg.ResolveWorkDir(),
			Version:      version,
			GitURL:       cfg.ResolveDepotToolsGitURL(),
			BundleURL:    cfg.ResolveDepotToolsBundleURL(),
			BundleSha256: cfg.DepotToolsBundleSha256,
			UseBundle:    useBundle,
		})
	},
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().String("version", "", "V8 version tag to check out, e.g. 14.2.231.17.")
	cloneCmd.Flags().Bool("bootstrap-archive", false, "Download the depot_tools bundle instead of cloning it with git.")
}
