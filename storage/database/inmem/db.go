package inmemdb

import (
	"sync"

	"github.com/trezcool/sgpa/core/user"
)

type (
	DB struct {
		user *userTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}
)

// Open returns an empty in-memory database.
func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
}
