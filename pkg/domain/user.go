package domain

import (
	"bytes"
	"encoding/json"
)

// UserProfile is the user record returned by the API.
// Only a few fields are decoded; everything else is kept in Extra and written back
// unchanged. Known fields keep their original encoding (numeric ids, nulls, empty
// strings) until the decoded value is changed, so the profile round-trips through
// storage without loss.
type UserProfile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string

	// Extra holds every field the client does not interpret.
	Extra map[string]json.RawMessage

	// known holds the received encoding of each known field and the value it decoded to.
	known map[string]receivedField
}

type receivedField struct {
	raw     json.RawMessage
	decoded string
}

var knownUserFields = map[string]struct{}{
	"id":         {},
	"name":       {},
	"email":      {},
	"avatar_url": {},
}

// UnmarshalJSON decodes a profile, keeping unknown fields in Extra.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return ErrMalformedUser
	}

	var out UserProfile
	for key, value := range raw {
		if _, known := knownUserFields[key]; known {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[key] = value
	}

	if err := decodeOptionalString(raw, "id", &out.ID); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "name", &out.Name); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "email", &out.Email); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "avatar_url", &out.AvatarURL); err != nil {
		return err
	}

	for key, value := range map[string]string{
		"id":         out.ID,
		"name":       out.Name,
		"email":      out.Email,
		"avatar_url": out.AvatarURL,
	} {
		if r, ok := raw[key]; ok {
			if out.known == nil {
				out.known = make(map[string]receivedField, len(knownUserFields))
			}
			out.known[key] = receivedField{raw: r, decoded: value}
		}
	}

	*u = out
	return nil
}

// MarshalJSON encodes the profile, merging Extra back in.
// A known field still holding the value it was decoded to is written as received;
// otherwise it is written as a string, or omitted when empty. Keys come out sorted,
// so {"id":"u1","name":"Alice"} encodes to exactly that string.
func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	for key, value := range map[string]string{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
	} {
		if f, ok := u.known[key]; ok && f.decoded == value {
			out[key] = f.raw
			continue
		}
		if value == "" {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		out[key] = encoded
	}
	return json.Marshal(out)
}

// Clone returns a deep copy, so callers cannot mutate the manager's copy.
func (u UserProfile) Clone() UserProfile {
	cp := u
	if u.Extra != nil {
		cp.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			cp.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if u.known != nil {
		cp.known = make(map[string]receivedField, len(u.known))
		for k, f := range u.known {
			cp.known[k] = receivedField{raw: append(json.RawMessage(nil), f.raw...), decoded: f.decoded}
		}
	}
	return cp
}

// Avatar returns the avatar URL or the given fallback.
func (u UserProfile) Avatar(fallback string) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return fallback
}

// decodeOptionalString accepts strings, numbers (ids are sometimes numeric) and null.
func decodeOptionalString(raw map[string]json.RawMessage, key string, dst *string) error {
	value, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(value, dst); err == nil {
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return ErrMalformedUser
	}
	*dst = n.String()
	return nil
}
