package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/studydeck/internal/gateway"
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents ready for study",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		fc, err := loadFileConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		gw, err := newGateway(fc, st.EventRepo())
		if err != nil {
			return err
		}
		docs, err := gw.ListDocuments(cmd.Context())
		if err != nil {
			return err
		}
		if !all {
			docs = gateway.EligibleDocuments(docs)
		}

		if len(docs) == 0 {
			fmt.Println("No documents found. Upload one with `studydeck upload FILE`.")
			return nil
		}

		fmt.Printf("%-38s  %-32s  %-12s  %s\n", "ID", "Name", "Status", "Created")
		fmt.Println(strings.Repeat("─", 100))
		for _, d := range docs {
			fmt.Printf("%-38s  %-32s  %-12s  %s\n",
				d.ID, truncate(d.Name(), 32), d.ProcessingStatus, d.CreatedAt)
		}
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document to the content service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := loadFileConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		gw, err := newGateway(fc, st.EventRepo())
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		doc, err := gw.UploadDocument(cmd.Context(), args[0], f)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s as %s (status: %s)\n", doc.Name(), doc.ID, doc.ProcessingStatus)
		if !doc.Eligible() {
			fmt.Println("Items can be studied once processing completes; check with `studydeck docs`.")
		}
		return nil
	},
}

func init() {
	docsCmd.Flags().Bool("all", false, "Include documents still processing or failed")
}
