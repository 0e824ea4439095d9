package transactions

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxSlipBytes caps an uploaded transfer slip.
const MaxSlipBytes = 5 << 20

var (
	ErrSlipTooLarge = errors.New("slip exceeds 5 MiB")
	ErrSlipNotImage = errors.New("slip is not an image")
)

// Slip is a transfer-slip image attached to the form. It is only previewed
// back to the user; nothing is uploaded or stored.
type Slip struct {
	Name        string
	ContentType string
	Size        int
	DataURL     string
}

// ReadSlip reads an uploaded image and returns it as a data-URL preview.
func ReadSlip(name string, r io.Reader) (Slip, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSlipBytes+1))
	if err != nil {
		return Slip{}, fmt.Errorf("failed to read slip: %w", err)
	}
	if len(data) > MaxSlipBytes {
		return Slip{}, ErrSlipTooLarge
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return Slip{}, ErrSlipNotImage
	}

	return Slip{
		Name:        name,
		ContentType: ct,
		Size:        len(data),
		DataURL:     "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
