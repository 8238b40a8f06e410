package standalone

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
)

// DefaultStorageVolumeName is the volume holding downloaded models. It
// matches the name used by the upstream `docker run -v ollama:/root/.ollama`
// instructions so existing installs are reused.
const DefaultStorageVolumeName = "ollama"

// EnsureStorageVolume ensures that the model storage volume exists, creating
// it if necessary. It returns the name of the storage volume or any error that
// occurred.
func EnsureStorageVolume(ctx context.Context, dockerClient client.VolumeAPIClient, printer StatusPrinter, volumeName string) (string, error) {
	if volumeName == "" {
		volumeName = DefaultStorageVolumeName
	}

	// A volume with the requested name wins, labelled or not: it usually
	// comes from an earlier manual install.
	named, err := dockerClient.VolumeList(ctx, volume.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", volumeName)),
	})
	if err != nil {
		return "", fmt.Errorf("unable to list volumes: %w", err)
	}
	for _, v := range named.Volumes {
		if v.Name == volumeName {
			return v.Name, nil
		}
	}

	printer.Printf("Creating model storage volume %s...\n", volumeName)
	vol, err := dockerClient.VolumeCreate(ctx, volume.CreateOptions{
		Name: volumeName,
		Labels: map[string]string{
			labelService: serviceOllama,
			labelRole:    roleModelStorage,
		},
	})
	if err != nil {
		return "", fmt.Errorf("unable to create volume: %w", err)
	}
	return vol.Name, nil
}
