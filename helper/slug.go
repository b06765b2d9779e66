package helper

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"restaurant_manager/model"
)

func GenerateUniqueRestaurantSlug(tx *gorm.DB, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "restaurant"
	}
	result := base
	for i := 1; ; i++ {
		var count int64
		if err := tx.Model(&model.Restaurant{}).Unscoped().
			Where("slug = ?", result).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return result, nil
		}
		result = fmt.Sprintf("%s-%d", base, i)
	}
}
