package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidMessage marks a batch message that cannot be decoded.
var ErrInvalidMessage = errors.New("invalid image import message")

// Row is one product row: column name to cell value. Resolution mutates it in place.
type Row map[string]string

// BatchRow pairs a row with its number in the source file.
type BatchRow struct {
	Num int
	Row Row
}

// Batch keeps rows in document order. Its JSON form is an object keyed by row
// number; a plain array is accepted too and numbered from 0.
type Batch []BatchRow

// Message is one unit of work: a job config and the rows to process.
type Message struct {
	Config map[string]interface{} `json:"config"`
	Data   Batch                  `json:"data"`
}

func (b *Batch) UnmarshalJSON(data []byte) error {
	out, err := decodeBatch(data, DefaultSeparator)
	if err != nil {
		return err
	}
	*b = out
	return nil
}

func (b Batch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, br := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(br.Num)))
		buf.WriteByte(':')
		row, err := json.Marshal(br.Row)
		if err != nil {
			return nil, err
		}
		buf.Write(row)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the config first so list cells in data are joined with the
// job's own separator.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Config map[string]interface{} `json:"config"`
		Data   json.RawMessage        `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if raw.Config == nil {
		raw.Config = map[string]interface{}{}
	}
	opts, err := DecodeOptions(raw.Config)
	if err != nil {
		return err
	}
	batch, err := decodeBatch(raw.Data, opts.Separator)
	if err != nil {
		return err
	}
	m.Config = raw.Config
	m.Data = batch
	return nil
}

// DecodeMessage parses a serialized batch message.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		if errors.Is(err, ErrInvalidMessage) {
			return m, err
		}
		return m, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return m, nil
}

func decodeBatch(data []byte, sep string) (Batch, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Batch{}, nil
	}

	if data[0] == '[' {
		var rows []map[string]interface{}
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrInvalidMessage, err)
		}
		out := make(Batch, 0, len(rows))
		for i, raw := range rows {
			row, err := toRow(raw, sep)
			if err != nil {
				return nil, err
			}
			out = append(out, BatchRow{Num: i, Row: row})
		}
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: data must be an object or array", ErrInvalidMessage)
	}
	var out Batch
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrInvalidMessage, err)
		}
		key, _ := tok.(string)
		num, err := strconv.Atoi(key)
		if err != nil {
			num = len(out)
		}
		var raw map[string]interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", ErrInvalidMessage, key, err)
		}
		row, err := toRow(raw, sep)
		if err != nil {
			return nil, err
		}
		out = append(out, BatchRow{Num: num, Row: row})
	}
	return out, nil
}

// toRow flattens decoded JSON cells to strings. Null cells are dropped so they
// read as absent; list cells are joined with sep.
func toRow(raw map[string]interface{}, sep string) (Row, error) {
	row := make(Row, len(raw))
	for col, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				var s string
				if err := mapstructure.WeakDecode(item, &s); err != nil {
					return nil, fmt.Errorf("%w: column %s: %v", ErrInvalidMessage, col, err)
				}
				parts = append(parts, s)
			}
			row[col] = strings.Join(parts, sep)
		default:
			var s string
			if err := mapstructure.WeakDecode(val, &s); err != nil {
				return nil, fmt.Errorf("%w: column %s: %v", ErrInvalidMessage, col, err)
			}
			row[col] = s
		}
	}
	return row, nil
}
