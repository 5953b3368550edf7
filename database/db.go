// Package database manages the sqlite store: connection setup, schema
// migration and startup seeding of roles, demo accounts and sample books.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"

	"bookshelf/config"
	"bookshelf/database/model"
	"bookshelf/util/crypto"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const (
	// RoleUser must exist before any registration can succeed.
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	defaultUserName      = "user"
	defaultUserPassword  = "user123"
	defaultAdminName     = "admin"
	defaultAdminPassword = "admin123"
)

func initModels() error {
	models := []any{
		&model.Role{},
		&model.Member{},
		&model.Book{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// initRoles creates the fixed role vocabulary. Registration treats a missing
// USER role as a deployment invariant violation, so the rows have to exist
// before the web server starts.
func initRoles() error {
	for _, name := range []string{RoleUser, RoleAdmin} {
		var count int64
		err := db.Model(model.Role{}).Where("name = ?", name).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&model.Role{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// initMembers seeds the demo accounts when the member table is empty:
// user/user123 (USER) and admin/admin123 (USER+ADMIN).
func initMembers() error {
	empty, err := isTableEmpty("members")
	if err != nil {
		log.Printf("Error checking if members table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	var userRole, adminRole model.Role
	if err := db.Where("name = ?", RoleUser).First(&userRole).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	userHash, err := crypto.HashPasswordAsBcrypt(defaultUserPassword)
	if err != nil {
		return err
	}
	adminHash, err := crypto.HashPasswordAsBcrypt(defaultAdminPassword)
	if err != nil {
		return err
	}

	members := []*model.Member{
		{
			Username: defaultUserName,
			Password: userHash,
			Name:     "Kim Cheolsu",
			Age:      25,
			Email:    "user@test.com",
			Roles:    []model.Role{userRole},
		},
		{
			Username: defaultAdminName,
			Password: adminHash,
			Name:     "Administrator",
			Age:      30,
			Email:    "admin@test.com",
			Roles:    []model.Role{userRole, adminRole},
		},
	}
	for _, m := range members {
		if err := db.Create(m).Error; err != nil {
			return err
		}
	}
	return nil
}

// initBooks seeds a few sample books when the catalog is empty.
func initBooks() error {
	empty, err := isTableEmpty("books")
	if err != nil {
		log.Printf("Error checking if books table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	var user, admin model.Member
	if err := db.Where("username = ?", defaultUserName).First(&user).Error; err != nil {
		return err
	}
	if err := db.Where("username = ?", defaultAdminName).First(&admin).Error; err != nil {
		return err
	}

	books := []*model.Book{
		{
			Title:          "The Essence of Java",
			Author:         "Namgung Seong",
			Price:          30000,
			Pages:          1022,
			Description:    "Java programming from basics to practice",
			RegisteredById: user.Id,
		},
		{
			Title:          "Spring Boot and AWS Web Services",
			Author:         "Lee Dongwook",
			Price:          22000,
			Pages:          416,
			Description:    "Building a web service with Spring Boot and AWS",
			RegisteredById: user.Id,
		},
		{
			Title:          "Clean Code",
			Author:         "Robert Martin",
			Price:          33000,
			Pages:          464,
			Description:    "A handbook of agile software craftsmanship",
			RegisteredById: admin.Id,
		},
	}
	for _, b := range books {
		if err := db.Create(b).Error; err != nil {
			return err
		}
	}
	return nil
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA cache_size = -64000;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA temp_store = MEMORY;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initRoles(); err != nil {
		return err
	}
	if err := initMembers(); err != nil {
		return err
	}
	return initBooks()
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

// Checkpoint flushes the WAL into the main database file.
func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
