package tablestore

import (
	"encoding/base64"
	"encoding/json"
)

// continuation identifies the last entity returned; the next page starts
// strictly after it in (PartitionKey, RowKey) order.
type continuation struct {
	PartitionKey string `json:"pk"`
	RowKey       string `json:"rk"`
}

func encodeToken(pk, rk string) string {
	b, _ := json.Marshal(continuation{PartitionKey: pk, RowKey: rk})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeToken(token string) (continuation, error) {
	var c continuation
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, ErrInvalidToken
	}
	if err := json.Unmarshal(b, &c); err != nil || c.PartitionKey == "" || c.RowKey == "" {
		return c, ErrInvalidToken
	}
	return c, nil
}

func keyAfter(pk, rk string, c continuation) bool {
	if pk != c.PartitionKey {
		return pk > c.PartitionKey
	}
	return rk > c.RowKey
}
