// Package store persists links, click events, and users in Redis.
//
// Key layout:
//
//	link:{code}   JSON link, created with SETNX so short codes stay unique
//	              under concurrent creates
//	link_index    hash of link id -> code, for delete-by-id
//	owner:{email} set of codes owned by that email
//	clicks:{code} list of JSON click events, append-only
//	user:{email}  JSON user
package store

import "errors"

const linkIndexKey = "link_index"

var (
	ErrNotFound      = errors.New("not found")
	ErrCodeExhausted = errors.New("failed to generate unique short code after maximum retries")
)

func linkKey(code string) string   { return "link:" + code }
func clicksKey(code string) string { return "clicks:" + code }
func ownerKey(email string) string { return "owner:" + email }
func userKey(email string) string  { return "user:" + email }
