package model

import "time"

// Post 帖子；Username 是作者用户名的冗余副本，LikeCount 是 likes 表行数的冗余计数
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Username  string    `json:"username" gorm:"type:varchar(64);not null"`
	AuthorKey string    `json:"-" gorm:"type:varchar(64);index:idx_post_author;not null"`
	LikeCount int64     `json:"likes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"timestamp" gorm:"index:idx_post_created"`

	// 作者改名时 author_key 随 users.username_key 级联更新；有帖子的用户不能直接删除
	Author *User `json:"-" gorm:"foreignKey:AuthorKey;references:UsernameKey;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Post) TableName() string { return "posts" }
