package db

import (
	"log"
	"os"

	"senlin/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=senlin port=5432 sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Forum{},
		&models.Submission{},
		&models.Comment{},
		&models.Vote{},
		&models.Subscription{},
		&models.Moderator{},
		&models.HiddenForum{},
		&models.ForumBan{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial forums
	seedForums()
}

func seedForums() {
	// 检查是否已有版块数据
	var count int64
	DB.Model(&models.Forum{}).Count(&count)
	if count > 0 {
		log.Println("Forums already seeded, skipping")
		return
	}

	// 创建预设版块
	forums := []models.Forum{
		{Name: "技术", Description: "技术相关的讨论和分享", Featured: true},
		{Name: "生活", Description: "生活日常、经验分享", Featured: true},
		{Name: "展示", Description: "作品展示、项目分享"},
		{Name: "闲聊", Description: "随便聊聊"},
	}

	for _, forum := range forums {
		if err := DB.Create(&forum).Error; err != nil {
			log.Printf("Failed to create forum %s: %v", forum.Name, err)
		}
	}
	log.Println("Initial forums created successfully")
}
