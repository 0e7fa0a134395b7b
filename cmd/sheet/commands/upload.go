package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/init-pkg/trade-disclosure/domain/app"
	fetcher_client "github.com/init-pkg/trade-disclosure/internal/clients/fetcher"
	recognition_client "github.com/init-pkg/trade-disclosure/internal/clients/recognition"
)

var (
	uploadPerson app.RelatedPersonInfo
	uploadOut    string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <image-or-pdf>",
	Short: "Submit a trade document for recognition and save the generated workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringVar(&uploadPerson.Name, "name", "", "related person name")
	f.StringVar((*string)(&uploadPerson.Relationship), "relationship", "", "relationship, e.g. 配偶")
	f.StringVar(&uploadPerson.IDNumber, "id-number", "", "18-character resident id")
	f.StringVar(&uploadPerson.Phone, "phone", "", "11-digit mobile number")
	f.StringVar(&uploadPerson.Description, "description", "", "optional note")
	f.StringVarP(&uploadOut, "out", "o", "", "output path, defaults to the generated file name")
	for _, name := range []string{"name", "relationship", "id-number", "phone"} {
		_ = uploadCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	client := recognition_client.New(cfg, fetcher_client.New(cfg, log), log)
	gen, appErr := client.Submit(cmd.Context(), app.UploadSubmission{
		File: app.UploadFile{
			Name:        filepath.Base(args[0]),
			ContentType: mimetype.Detect(content).String(),
			Content:     content,
		},
		Person: uploadPerson,
	})
	if appErr != nil {
		return appErr
	}

	out := uploadOut
	if out == "" {
		out = gen.Result.FileName
	}
	if out == "" {
		out = app.DefaultDownloadName
	}
	if err := os.WriteFile(out, gen.Data, 0o644); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), gen.Result.Message)
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", out, len(gen.Data))
	return nil
}
