package model

import "time"

// Reaction 表情回应，同一用户对同一帖子可有多个不同 emoji
// 复合主键 (post_id, user_id, emoji)，外键同 Like
type Reaction struct {
	PostID    uint   `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint   `gorm:"primaryKey;autoIncrement:false;index:idx_reaction_user"`
	Emoji     string `gorm:"primaryKey;type:varchar(64)"`
	CreatedAt time.Time

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT"`
}

func (Reaction) TableName() string { return "reactions" }

// ReactionCount 单个 emoji 的聚合计数
type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}
