// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// jsonToBSON converts any JSON value into a BSON value without Extended JSON
// interpretation: keys stay literal (including "$" prefixes) and numbers keep
// their precision.
//
//	integer fitting int64       → int64
//	number reproduced by float64 → double
//	anything else               → decimal128
func jsonToBSON(data []byte) (bson.RawValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return bson.RawValue{}, fmt.Errorf("failed to convert JSON to BSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return bson.RawValue{}, errors.New("failed to convert JSON to BSON: trailing data")
	}

	raw, err := bson.Marshal(bson.D{{Key: "v", Value: value}})
	if err != nil {
		return bson.RawValue{}, fmt.Errorf("failed to convert JSON to BSON: %w", err)
	}
	return bson.Raw(raw).Lookup("v"), nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := bson.D{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				doc = append(doc, bson.E{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return doc, nil
		case '[':
			arr := bson.A{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return jsonNumberToBSON(t)
	case string, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func jsonNumberToBSON(n json.Number) (any, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'g', -1, 64) == s {
		return f, nil
	}
	d, err := bson.ParseDecimal128(s)
	if err != nil {
		return nil, fmt.Errorf("number %s out of range: %w", s, err)
	}
	return d, nil
}

// bsonToJSON is the inverse of jsonToBSON. Types jsonToBSON never produces
// (dates, ObjectIDs written by other tools) fall back to relaxed Extended JSON.
func bsonToJSON(value bson.RawValue) (json.RawMessage, error) {
	if len(value.Value) == 0 {
		return json.RawMessage("null"), nil
	}

	var buf bytes.Buffer
	if err := writeBSONValue(&buf, value); err != nil {
		return nil, fmt.Errorf("failed to convert BSON to JSON: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

func writeBSONValue(buf *bytes.Buffer, value bson.RawValue) error {
	switch value.Type {
	case bson.TypeNull:
		buf.WriteString("null")
	case bson.TypeBoolean:
		buf.WriteString(strconv.FormatBool(value.Boolean()))
	case bson.TypeInt32:
		buf.WriteString(strconv.FormatInt(int64(value.Int32()), 10))
	case bson.TypeInt64:
		buf.WriteString(strconv.FormatInt(value.Int64(), 10))
	case bson.TypeDouble:
		buf.WriteString(strconv.FormatFloat(value.Double(), 'g', -1, 64))
	case bson.TypeDecimal128:
		buf.WriteString(value.Decimal128().String())
	case bson.TypeString:
		return writeJSONString(buf, value.StringValue())
	case bson.TypeEmbeddedDocument:
		elems, err := value.Document().Elements()
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, elem := range elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, elem.Key()); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeBSONValue(buf, elem.Value()); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case bson.TypeArray:
		values, err := value.Array().Values()
		if err != nil {
			return err
		}
		buf.WriteByte('[')
		for i, v := range values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeBSONValue(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: value}}, false, false)
		if err != nil {
			return err
		}
		var wrapper struct {
			V json.RawMessage `json:"v"`
		}
		if err := json.Unmarshal(b, &wrapper); err != nil {
			return err
		}
		buf.Write(wrapper.V)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
