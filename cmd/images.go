package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/api"
	"github.com/partstash/partstash/pkg/inventory"
	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Upload and adjust part images",
}

var imagesUploadCmd = &cobra.Command{
	Use:   "upload <part-id> <file>",
	Short: "Upload an image for a part via presigned storage URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		imageType, _ := cmd.Flags().GetString("type")
		switch imageType {
		case inventory.ImagePrimary, inventory.ImageSupplemental, inventory.ImageIPNLabel:
		default:
			utils.Log.Fatal("Invalid image type: ", imageType)
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		uri, err := client.UploadImage(cmd.Context(), args[0], filepath.Base(args[1]), data, imageType)
		if err != nil {
			return err
		}
		fmt.Println("Uploaded:", uri)
		return nil
	},
}

var imagesRotateCmd = &cobra.Command{
	Use:   "rotate <part-id> <image-id> <degrees>",
	Short: "Set an image's rotation (0, 90, 180 or 270)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var degrees int
		if _, err := fmt.Sscanf(args[2], "%d", &degrees); err != nil {
			utils.Log.Fatal("Bad rotation value: ", args[2])
		}
		switch ((degrees % 360) + 360) % 360 {
		case 0, 90, 180, 270:
		default:
			utils.Log.Fatal("Rotation must be a multiple of 90")
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		part, err := client.GetPart(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Seed the tracker from the stored rotation so only the
		// increment goes over the wire.
		tracker := api.NewRotationTracker()
		found := false
		for _, img := range part.Images {
			if img.ID == args[1] {
				tracker.Seed(img.ID, img.Rotation)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("image %s not found on part %s", args[1], args[0])
		}

		if err := client.RotateImage(cmd.Context(), tracker, args[1], degrees); err != nil {
			return err
		}
		fmt.Println("Rotation saved")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)
	imagesCmd.AddCommand(imagesUploadCmd)
	imagesCmd.AddCommand(imagesRotateCmd)

	imagesUploadCmd.Flags().StringP("type", "t", inventory.ImageSupplemental, "Image type: primary, supplemental or ipn_label")
}
