package model

import "time"

// Like 点赞关系，复合主键 (user_id, post_id) 防止重复点赞；
// 外键 RESTRICT 保证用户或帖子删除前必须先撤销点赞
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	PostID    uint `gorm:"primaryKey;autoIncrement:false;index:idx_like_post"`
	CreatedAt time.Time

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT"`
}

func (Like) TableName() string { return "likes" }
