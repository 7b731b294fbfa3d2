package filter

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// maxMultipartDepth bounds recursion into nested multipart bodies
const maxMultipartDepth = 5

type headerGetter interface {
	Get(key string) string
}

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// charsetReader converts input in the named charset to UTF-8
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "us-ascii":
		return input, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// decodeHeader decodes RFC 2047 encoded words, returning the raw value when decoding fails
func decodeHeader(value string) string {
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// extractText returns the decoded subject followed by the text/plain content of msg
func extractText(msg *mail.Message) (string, error) {
	var b strings.Builder
	if subject := strings.TrimSpace(decodeHeader(msg.Header.Get("Subject"))); subject != "" {
		b.WriteString(subject)
		b.WriteString("\n\n")
	}
	if err := collectText(msg.Header, msg.Body, 0, &b); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func collectText(h headerGetter, body io.Reader, depth int, out *strings.Builder) error {
	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		// missing or broken Content-Type defaults to text/plain
		mediaType, params = "text/plain", map[string]string{}
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" || depth >= maxMultipartDepth {
			return nil
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				// keep whatever was readable before the malformed part
				if out.Len() > 0 {
					return nil
				}
				return fmt.Errorf("failed to read multipart body: %w", err)
			}
			if isAttachment(part.Header.Get("Content-Disposition")) {
				continue
			}
			if err := collectText(part.Header, part, depth+1, out); err != nil {
				return err
			}
		}

	case mediaType == "text/plain":
		r, err := charsetReader(params["charset"], transferDecoder(h.Get("Content-Transfer-Encoding"), body))
		if err != nil {
			return err
		}
		text, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("failed to read text part: %w", err)
		}
		out.Write(text)
		out.WriteString("\n")
	}

	return nil
}

func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

func isAttachment(disposition string) bool {
	d, _, err := mime.ParseMediaType(disposition)
	return err == nil && d == "attachment"
}
