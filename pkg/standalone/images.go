package standalone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
)

// ImagePresent reports whether imageName exists locally.
func ImagePresent(ctx context.Context, dockerClient client.ImageAPIClient, imageName string) (bool, error) {
	images, err := dockerClient.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", imageName)),
	})
	if err != nil {
		return false, fmt.Errorf("unable to list images: %w", err)
	}
	return len(images) > 0, nil
}

// EnsureImage pulls imageName unless it is already present. With always set
// the pull happens regardless, picking up a newer build of the tag.
func EnsureImage(ctx context.Context, dockerClient client.ImageAPIClient, imageName string, always bool, printer StatusPrinter) error {
	if !always {
		present, err := ImagePresent(ctx, dockerClient, imageName)
		if err != nil {
			return err
		}
		if present {
			printer.Println("Image", imageName, "is already present")
			return nil
		}
	}
	return PullImage(ctx, dockerClient, imageName, printer)
}

// PullImage pulls imageName and prints progress updates.
func PullImage(ctx context.Context, dockerClient client.ImageAPIClient, imageName string, printer StatusPrinter) error {
	out, err := dockerClient.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer out.Close()

	// Decode and print status updates.
	decoder := json.NewDecoder(out)
	for {
		var response jsonmessage.JSONMessage
		if err := decoder.Decode(&response); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to decode pull response: %w", err)
		}
		if response.Error != nil {
			return fmt.Errorf("failed to pull image %s: %s", imageName, response.Error.Message)
		}

		if response.ID != "" {
			printer.Printf("\r%s: %s %s", response.ID, response.Status, response.ProgressMessage)
		} else {
			printer.Println(response.Status)
		}
	}
	printer.Println("\nSuccessfully pulled", imageName)
	return nil
}
