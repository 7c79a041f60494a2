package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mediavault/internal/uploader"
	vault_errors "mediavault/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
	chunkSize int64
)

func main() {
	root := &cobra.Command{
		Use:   "uploadctl",
		Short: "Upload videos to a mediavault server",
		Long: `uploadctl drives the full video upload flow against a mediavault server:
it requests an upload destination, streams the file in chunks, writes the
backup copy and registers the file record. The server's background
reconciliation marks the file ready once the provider finishes processing.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "mediavault server base URL")
	root.PersistentFlags().StringVar(&authToken, "token", os.Getenv("MEDIAVAULT_TOKEN"), "bearer token (defaults to MEDIAVAULT_TOKEN)")

	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video file",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
	upload.Flags().Int64Var(&chunkSize, "chunk-size", uploader.DefaultChunkSize, "transfer chunk size in bytes")

	root.AddCommand(upload)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	if authToken == "" {
		return errors.New("no auth token: set --token or MEDIAVAULT_TOKEN")
	}

	api := uploader.NewServerAPI(serverURL, authToken)
	session := uploader.NewSession(api,
		uploader.WithChunkSize(chunkSize),
		uploader.WithProgress(func(percent int) {
			fmt.Fprintf(cmd.OutOrStdout(), "\rUploading... %3d%%", percent)
		}),
	)

	if err := session.SelectFile(args[0]); err != nil {
		switch {
		case errors.Is(err, vault_errors.ErrUnsupportedType):
			return fmt.Errorf("%s: not a video file", args[0])
		case errors.Is(err, vault_errors.ErrTooLarge):
			return fmt.Errorf("%s: exceeds the %d GiB limit", args[0], uploader.MaxFileSize/(1024*1024*1024))
		default:
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileID, err := session.Start(ctx)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		if ctx.Err() != nil {
			session.Cancel()
			return errors.New("upload cancelled")
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Upload complete. File id: %s\n", fileID)
	fmt.Fprintln(cmd.OutOrStdout(), "The video is processing; it becomes playable once reconciliation marks it ready.")
	return nil
}
