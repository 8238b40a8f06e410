package standalone

import (
	"github.com/project-laplace/gpt-oss-standalone/pkg/gpu"
)

const (
	// OllamaImage is the repository of the Ollama server image.
	OllamaImage = "ollama/ollama"
	// DefaultOllamaImageVersion is used when no version is configured.
	DefaultOllamaImageVersion = "latest"
)

// ollamaImageVariant returns the tag variant for the detected GPU. CUDA
// works with the base image; AMD GPUs need the rocm build.
func ollamaImageVariant(detected gpu.Support) string {
	if detected == gpu.ROCm {
		return "rocm"
	}
	return ""
}

func fmtImageName(repo, version, variant string) string {
	if version == "" {
		version = DefaultOllamaImageVersion
	}
	if variant == "" {
		return repo + ":" + version
	}
	// The rolling rocm build is published as plain "rocm", not "latest-rocm".
	if version == DefaultOllamaImageVersion {
		return repo + ":" + variant
	}
	return repo + ":" + version + "-" + variant
}

// OllamaImageName returns the image to run for the given GPU support.
// version may be empty. variantOverride, when non-nil, replaces the
// detected variant; "cpu" and "generic" select the base image.
func OllamaImageName(detected gpu.Support, version string, variantOverride *string) string {
	variant := ollamaImageVariant(detected)
	if variantOverride != nil {
		variant = *variantOverride
		if variant == "cpu" || variant == "generic" {
			variant = ""
		}
	}
	return fmtImageName(OllamaImage, version, variant)
}
