package clients

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

const imdsTimeout = 3 * time.Second

// GetInstanceID asks the EC2 instance metadata service for this host's
// instance id. Fails fast when not running on EC2.
func GetInstanceID(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, imdsTimeout)
	defer cancel()

	client := imds.New(imds.Options{})
	output, err := client.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return "", fmt.Errorf("instance metadata service: %w", err)
	}
	defer output.Content.Close()

	data, err := io.ReadAll(output.Content)
	if err != nil {
		return "", fmt.Errorf("reading instance-id: %w", err)
	}

	instanceID := strings.TrimSpace(string(data))
	if instanceID == "" {
		return "", fmt.Errorf("instance metadata service returned an empty instance-id")
	}
	return instanceID, nil
}
