package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bucket-browser/internal/browser"
	"bucket-browser/internal/config"
	"bucket-browser/internal/media"
	"bucket-browser/internal/storage"
)

var svc *browser.Service

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bucketctl",
		Short:         "Browse the configured bucket as folders from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := storage.New(cfg)
			if err != nil {
				return err
			}
			maxUpload, _ := cfg.MaxUploadBytes()
			svc = browser.NewService(store, browser.Options{
				HideSentinels: cfg.Browser.HideSentinels,
				MaxUploadSize: maxUpload,
				PresignTTL:    cfg.PresignTTL(),
			})
			return nil
		},
	}

	root.AddCommand(checkCmd(), lsCmd(), mkdirCmd(), putCmd(), urlCmd(), crumbsCmd())
	return root
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Create the bucket if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := svc.EnsureBucket(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bucket %s ready\n", bucket)
			return nil
		},
	}
}

func lsCmd() *cobra.Command {
	var mediaOnly bool
	cmd := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List folders and files one level below prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			list := svc.List
			if mediaOnly {
				list = svc.Media
			}
			items, err := list(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			printEntries(cmd, items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&mediaOnly, "media", false, "only images and videos")
	return cmd
}

func printEntries(cmd *cobra.Command, items []browser.Entry) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, item := range items {
		if item.Kind == browser.Folder {
			fmt.Fprintf(w, "%s/\t-\t-\tfolder\n", item.Name)
			continue
		}
		size, modified := "-", "-"
		if item.Size != nil {
			size = humanize.Bytes(uint64(*item.Size))
		}
		if item.LastModified != nil {
			modified = humanize.Time(*item.LastModified)
		}
		kind := string(media.CategoryOf(item.Name))
		if media.IsPreviewable(item.Name) {
			kind += ",preview"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Name, size, modified, kind)
	}
}

func mkdirCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder under --prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := svc.CreateFolder(cmd.Context(), prefix, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "parent folder, ending in /")
	return cmd
}

func putCmd() *cobra.Command {
	var prefix, contentType string
	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Upload a local file under --prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}

			key, err := svc.Upload(cmd.Context(), prefix, filepath.Base(args[0]), f, info.Size(), contentType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", key, humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "target folder, ending in /")
	cmd.Flags().StringVar(&contentType, "content-type", "", "stored Content-Type")
	return cmd
}

func urlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <key>",
		Short: "Print a presigned download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := svc.PresignURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func crumbsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crumbs <prefix>",
		Short: "Print the breadcrumb trail of a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, item := range browser.Breadcrumbs(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%q\n", item.Title, item.Path)
			}
			return nil
		},
	}
}
