package model

import "time"

type Account struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
}

type Assignment struct {
	ID          int64
	Title       string
	Description string
	DueDate     time.Time
	Files       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AssignmentComment struct {
	ID           int64
	AssignmentID int64
	Author       string
	Text         string
	CreatedAt    time.Time
}

type Topic struct {
	ID        int64
	TopicID   string
	Subject   string
	Message   string
	Author    string
	CreatedAt time.Time
}

type Reply struct {
	ID        int64
	ReplyID   string
	TopicID   string
	Text      string
	Author    string
	CreatedAt time.Time
}

type Week struct {
	ID          int64
	WeekID      string
	Title       string
	StartDate   time.Time
	Description string
	Links       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WeekComment struct {
	ID        int64
	WeekID    string
	Author    string
	Text      string
	CreatedAt time.Time
}
