package config

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialectorFoldsUnicode(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(Dialector(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	tests := []struct {
		in   string
		want string
	}{
		{"ÉTÉ Planning", "été planning"},
		{"STRASSE Über", "strasse über"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		var got string
		if err := db.Raw("SELECT ulower(?)", tt.in).Scan(&got).Error; err != nil {
			t.Fatalf("ulower failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("ulower(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	var null string
	if err := db.Raw("SELECT ulower(NULL)").Scan(&null).Error; err != nil || null != "" {
		t.Errorf("expected NULL to fold to an empty string, got %q (%v)", null, err)
	}
}
