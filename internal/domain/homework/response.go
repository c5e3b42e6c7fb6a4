// internal/domain/homework/response.go
package homework

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const messageTemplate = `Изменился статус проверки работы "%s". %s`

// CheckResponse validates the structural shape of a raw API answer and
// extracts the homework list. Elements are not inspected here.
func CheckResponse(raw json.RawMessage) (*Response, error) {
	const op = "check_response"

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return nil, &Error{Kind: KindShape, Op: op, Detail: "response is not a json object", Err: err}
	}

	rawList, ok := body["homeworks"]
	if !ok {
		return nil, newError(KindShape, op, `key "homeworks" is missing`)
	}
	if isNull(rawList) {
		return nil, newError(KindShape, op, `"homeworks" is null, expected a list`)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(rawList, &list); err != nil {
		return nil, &Error{Kind: KindShape, Op: op, Detail: `"homeworks" is not a list`, Err: err}
	}

	resp := &Response{Homeworks: list}

	if rawDate, ok := body["current_date"]; ok && !isNull(rawDate) {
		var date int64
		if err := json.Unmarshal(rawDate, &date); err != nil {
			return nil, &Error{Kind: KindShape, Op: op, Detail: `"current_date" is not an integer`, Err: err}
		}
		if date < 0 {
			return nil, newError(KindShape, op, fmt.Sprintf(`"current_date" is negative: %d`, date))
		}
		resp.CurrentDate = &date
	}

	return resp, nil
}

// DecodeHomework reads the required fields of one homework record.
func DecodeHomework(record json.RawMessage) (*Homework, error) {
	const op = "parse_status"

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(record, &fields); err != nil || fields == nil {
		return nil, &Error{Kind: KindShape, Op: op, Detail: "homework record is not a json object", Err: err}
	}

	name, err := stringField(fields, "homework_name")
	if err != nil {
		return nil, err
	}
	status, err := stringField(fields, "status")
	if err != nil {
		return nil, err
	}
	return &Homework{Name: name, Status: Status(status)}, nil
}

// ParseStatus turns a homework record into the chat message announcing its
// verdict. Unknown statuses fail loudly instead of being skipped.
func ParseStatus(record json.RawMessage) (string, error) {
	hw, err := DecodeHomework(record)
	if err != nil {
		return "", err
	}
	verdict, ok := Verdict(hw.Status)
	if !ok {
		return "", newError(KindUnknownStatus, "parse_status", fmt.Sprintf("%q", string(hw.Status)))
	}
	return fmt.Sprintf(messageTemplate, hw.Name, verdict), nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", newError(KindMissingField, "parse_status", fmt.Sprintf("%q is missing", key))
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", newError(KindMissingField, "parse_status", fmt.Sprintf("%q is not a string", key))
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
