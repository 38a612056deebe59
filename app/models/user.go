package models

import "errors"

// UserIDList is an ordered list of user ids.
type UserIDList []int64

// IsSameList reports whether both lists hold the same ids in the same order.
func (l UserIDList) IsSameList(other UserIDList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Contains reports whether id is in the list
func (l UserIDList) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// With returns a copy of the list with id appended, unless already present.
func (l UserIDList) With(id int64) UserIDList {
	out := append(UserIDList{}, l...)
	if !l.Contains(id) {
		out = append(out, id)
	}
	return out
}

// Without returns a copy of the list with id removed.
func (l UserIDList) Without(id int64) UserIDList {
	out := make(UserIDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// UserList is an ordered list of users.
type UserList []*User

// UserIDs returns the ids of the users in list order
func (l UserList) UserIDs() UserIDList {
	ids := make(UserIDList, 0, len(l))
	for _, u := range l {
		if u != nil {
			ids = append(ids, u.UserID)
		}
	}
	return ids
}

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	if u == nil {
		return errors.New("user cannot be nil")
	}
	return validate.Struct(u)
}
