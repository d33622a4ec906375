package ask

import (
	"encoding/base64"
	"encoding/json"
	"mime"
	"strings"
)

var SupportedMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
}

type Answer struct {
	Text string

	// SelectedValue is set when a predefined option of a choice question was picked.
	SelectedValue string

	Images []ImageAttachment
}

type ImageAttachment struct {
	MimeType string
	Data     []byte
}

func (a Answer) MarshalJSON() ([]byte, error) {
	type image struct {
		Type     string `json:"type"`
		Data     string `json:"data"`
		MimeType string `json:"mimeType"`
	}

	result := struct {
		Text          string  `json:"text"`
		SelectedValue string  `json:"selectedValue,omitempty"`
		Images        []image `json:"images"`
	}{
		Text:          a.Text,
		SelectedValue: a.SelectedValue,
		Images:        []image{},
	}

	for _, i := range a.Images {
		result.Images = append(result.Images, image{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(i.Data),
			MimeType: i.MimeType,
		})
	}

	return json.Marshal(result)
}

// NormalizeMimeType maps a detected content type onto the supported allow-list.
func NormalizeMimeType(value string) (string, bool) {
	mediatype, _, err := mime.ParseMediaType(value)

	if err != nil {
		return "", false
	}

	mediatype = strings.ToLower(mediatype)

	switch mediatype {
	case "image/jpg", "image/pjpeg":
		mediatype = "image/jpeg"
	case "image/x-ms-bmp", "image/x-bmp":
		mediatype = "image/bmp"
	}

	for _, t := range SupportedMimeTypes {
		if t == mediatype {
			return t, true
		}
	}

	return "", false
}
