package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSameList(t *testing.T) {
	tests := []struct {
		name string
		a, b UserIDList
		want bool
	}{
		{"same order", UserIDList{1, 2, 3}, UserIDList{1, 2, 3}, true},
		{"different order", UserIDList{1, 2, 3}, UserIDList{3, 2, 1}, false},
		{"different length", UserIDList{1, 2}, UserIDList{1, 2, 3}, false},
		{"both empty", UserIDList{}, nil, true},
		{"different ids", UserIDList{1, 2}, UserIDList{1, 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IsSameList(tt.b))
		})
	}
}

func TestUserIDListWithWithout(t *testing.T) {
	ids := UserIDList{1, 2}

	assert.Equal(t, UserIDList{1, 2, 3}, ids.With(3))
	assert.Equal(t, UserIDList{1, 2}, ids.With(2))
	assert.Equal(t, UserIDList{2}, ids.Without(1))
	assert.Equal(t, UserIDList{1, 2}, ids, "receiver must not be modified")
	assert.True(t, ids.Contains(2))
	assert.False(t, ids.Contains(9))
}

func TestUserListFromLikes(t *testing.T) {
	users, err := UserListFromLikes([]byte(`{"found":3,"likes":[{"ID":3,"login":"c"},{"ID":0},{"ID":1,"login":"a"}]}`))
	assert.NoError(t, err)
	assert.Equal(t, UserIDList{3, 1}, users.UserIDs())

	_, err = UserListFromLikes([]byte(`[]`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestThemeValidation(t *testing.T) {
	assert.NoError(t, (&Theme{ID: "twentyfifteen", Name: "Twenty Fifteen", Screenshot: "https://i0.wp.com/s.png"}).Validate())
	assert.Error(t, (&Theme{Name: "No ID"}).Validate())
	assert.Error(t, (&Theme{ID: "x", Name: "Bad", Screenshot: "nope"}).Validate())
}
