package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/gcs"
)

// errExactlyOneSource rejects gcs put invocations that name both or neither
// of a file and a directory.
var errExactlyOneSource = errors.New("exactly one of --file or --dir is required")

// newGcsCmd groups the Cloud Storage subcommands.
func newGcsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcs",
		Short: "Move files and directories to and from Cloud Storage",
	}

	cmd.AddCommand(newGcsPutCmd(), newGcsGetCmd(), newGcsSignCmd(), newGcsFetchCmd())
	return cmd
}

// gcsClient builds a storage client from the resolved configuration.
func gcsClient(cmd *cobra.Command) (*gcs.Client, error) {
	cfg := configFromCmd(cmd)
	return gcs.NewClient(cmd.Context(), cfg.Workspace.Credentials)
}

// newGcsPutCmd creates the gcs put command. It uploads a single file, or a
// whole directory concurrently with --dir.
func newGcsPutCmd() *cobra.Command {
	var (
		bucket   string
		file     string
		dir      string
		object   string
		prefix   string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Upload a file or directory to a bucket",
		Example: `  # Upload one file under its own name
  dataferry gcs put --bucket ml-artifacts --file model.bin

  # Upload a directory under a prefix, eight uploads at a time
  dataferry gcs put --bucket ml-artifacts --dir models/v3 --prefix models/v3 --parallel 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if (file == "") == (dir == "") {
				return finishErr(ctx, errExactlyOneSource)
			}

			client, err := gcsClient(cmd)
			if err != nil {
				return finishErr(ctx, err)
			}
			defer client.Close()

			if dir != "" {
				if err := client.UploadDir(ctx, bucket, dir, prefix, parallel); err != nil {
					return finishErr(ctx, err)
				}
				cmd.Printf("Uploaded %s to gs://%s/%s\n", dir, bucket, prefix)
				return nil
			}

			name := gcs.DefaultObjectName(file, object)
			if err := client.Upload(ctx, bucket, file, name); err != nil {
				return finishErr(ctx, err)
			}
			cmd.Printf("Uploaded %s to gs://%s/%s\n", file, bucket, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "destination bucket (required)")
	cmd.Flags().StringVar(&file, "file", "", "local file to upload")
	cmd.Flags().StringVar(&dir, "dir", "", "local directory to upload recursively")
	cmd.Flags().StringVar(&object, "object", "", "object name (default: the file's base name)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "object name prefix for directory uploads")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent uploads for --dir (0 = number of CPUs)")
	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

// newGcsGetCmd creates the gcs get command.
func newGcsGetCmd() *cobra.Command {
	var (
		bucket string
		object string
		save   string
	)

	cmd := &cobra.Command{
		Use:     "get",
		Short:   "Download an object from a bucket",
		Example: `  dataferry gcs get --bucket ml-artifacts --object models/v3/model.bin --save model.bin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := gcsClient(cmd)
			if err != nil {
				return finishErr(ctx, err)
			}
			defer client.Close()

			target := save
			if target == "" {
				target = gcs.DefaultObjectName(object, "")
			}
			if err := client.Download(ctx, bucket, object, target); err != nil {
				return finishErr(ctx, err)
			}
			cmd.Printf("Downloaded gs://%s/%s to %s\n", bucket, object, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "source bucket (required)")
	cmd.Flags().StringVar(&object, "object", "", "object name (required)")
	cmd.Flags().StringVar(&save, "save", "", "local path to write to (default: the object's base name)")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}

// newGcsSignCmd creates the gcs sign command. The printed URL grants
// time-limited read access to anyone who holds it.
func newGcsSignCmd() *cobra.Command {
	var (
		bucket string
		object string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:     "sign",
		Short:   "Generate a signed download URL for an object",
		Example: `  dataferry gcs sign --bucket ml-artifacts --object models/v3/model.bin --ttl 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := gcsClient(cmd)
			if err != nil {
				return finishErr(ctx, err)
			}
			defer client.Close()

			url, err := client.SignedURL(bucket, object, ttl)
			if err != nil {
				return finishErr(ctx, err)
			}
			cmd.Println(url)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket holding the object (required)")
	cmd.Flags().StringVar(&object, "object", "", "object name (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "how long the URL stays valid")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}

// newGcsFetchCmd creates the gcs fetch command. It downloads a signed URL
// without credentials, retrying transient server errors.
func newGcsFetchCmd() *cobra.Command {
	var (
		url  string
		save string
	)

	cmd := &cobra.Command{
		Use:     "fetch",
		Short:   "Download a signed URL to a local file",
		Example: `  dataferry gcs fetch --url "https://storage.googleapis.com/..." --save model.bin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := gcs.FetchSignedURL(ctx, http.DefaultClient, url, save); err != nil {
				return finishErr(ctx, err)
			}
			cmd.Printf("Downloaded to %s\n", save)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "signed URL to download (required)")
	cmd.Flags().StringVar(&save, "save", "", "local path to write to (required)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("save")

	return cmd
}
