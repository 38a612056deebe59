package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix  = "post:"
	LikesKeyPrefix = "likes:"
	UserKeyPrefix  = "user:"
	AdminKeyPrefix = "admin:"
	ThemeKeyPrefix = "theme:"
)

func postKey(blogID, postID int64) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", PostKeyPrefix, blogID, postID))
}

func likesKey(blogID, postID int64) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", LikesKeyPrefix, blogID, postID))
}

func userKey(userID int64) []byte {
	return []byte(fmt.Sprintf("%s%d", UserKeyPrefix, userID))
}

func adminKey(blogID int64) []byte {
	return []byte(fmt.Sprintf("%s%d", AdminKeyPrefix, blogID))
}

func themeKey(id string) []byte {
	return []byte(ThemeKeyPrefix + id)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// getEntity loads key into entity, mapping a missing key to ErrNotFound
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and stores it under key
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
