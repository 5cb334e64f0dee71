package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// EncodingAuto selects UTF-8 when the input is valid UTF-8 and falls back to
// charset detection otherwise.
const EncodingAuto = "auto"

const encodingUTF8 = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errInvalidUTF8 = errors.New("input is not valid UTF-8")

// decode converts data to UTF-8 and returns the name of the source encoding.
func decode(data []byte, name string) ([]byte, string, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if name == "" || name == EncodingAuto {
		if utf8.Valid(data) {
			return bytes.TrimPrefix(data, utf8BOM), encodingUTF8, nil
		}
		res, err := chardet.NewTextDetector().DetectBest(data)
		if err != nil {
			return nil, "", fmt.Errorf("detect charset: %w", err)
		}
		name = strings.ToLower(res.Charset)
	}

	if name == encodingUTF8 || name == "utf8" {
		if !utf8.Valid(data) {
			return nil, "", errInvalidUTF8
		}
		return bytes.TrimPrefix(data, utf8BOM), encodingUTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", name, err)
	}
	if canonical, err := htmlindex.Name(enc); err == nil {
		name = canonical
	}
	return bytes.TrimPrefix(out, utf8BOM), name, nil
}
