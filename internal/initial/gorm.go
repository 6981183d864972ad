package initial

import (
	"fmt"
	"net/url"
	"time"

	"GroupLink/internal/config"
	chatEntity "GroupLink/internal/modules/chat/domain/entity"
	groupEntity "GroupLink/internal/modules/group/domain/entity"
	userEntity "GroupLink/internal/modules/user/domain/entity"
	"GroupLink/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func dialector(conf config.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
			conf.Host, conf.User, conf.Password, conf.DatabaseName, conf.Port, "Asia/Shanghai")
		return postgres.Open(dsn), nil
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=%s",
			conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName, url.QueryEscape("Local"))
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", conf.Driver)
	}
}

// InitDB 打开数据库连接并按配置自动迁移
func InitDB(conf config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(conf)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		zap.NewStdLog(zlog.L()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(d, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if conf.AutoMigrate {
		// 用户、好友、会话表由其他服务维护，这里只保证本地开发环境能建出来
		err = db.AutoMigrate(
			&groupEntity.GroupInfo{},
			&groupEntity.GroupMember{},
			&groupEntity.GroupNotice{},
			&groupEntity.GroupRecord{},
			&groupEntity.GroupEventOutbox{},
			&userEntity.UserInfo{},
			&userEntity.UserFriend{},
			&chatEntity.ChatSession{},
		)
		if err != nil {
			return nil, err
		}
	}

	GormDB = db
	zlog.Info("database connected", zap.String("driver", conf.Driver), zap.String("db", conf.DatabaseName))
	return db, nil
}
