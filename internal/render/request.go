package render

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ErrEmptyPreview render servisi başarılı döndüğü halde ses verisi yoksa döner.
var ErrEmptyPreview = errors.New("render servisi boş önizleme döndü")

// Request kırpılmış önizleme isteğidir. End nil ise dosyanın sonuna kadar render edilir.
type Request struct {
	ID     string
	Source string
	Start  float64
	End    *float64
}

// NewRequest yeni bir istek kimliği ile Request oluşturur.
func NewRequest(source string, start float64, end *float64) Request {
	return Request{
		ID:     uuid.New().String(),
		Source: source,
		Start:  start,
		End:    end,
	}
}

// StatusError render servisinin 2xx dışı yanıtıdır.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("render servisi HTTP %d döndü", e.Code)
	}
	return fmt.Sprintf("render servisi HTTP %d döndü: %s", e.Code, e.Body)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
