package dto

import "time"

type AddInput struct {
	Tier     string
	Title    string
	Deadline string
}

type GoalOutput struct {
	Ref       string
	Tier      string
	Title     string
	Deadline  string
	Progress  int
	TimeSpent int
	CreatedAt time.Time
}

type AccrueInput struct {
	Ref     string
	Seconds int
}
