package cached

import (
	"slices"

	domain "social-network-service/internal/domain/user"
)

func sortByID(users []domain.User) {
	slices.SortFunc(users, func(a, b domain.User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}
