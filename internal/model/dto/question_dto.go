package dto

// PostQuestionData 提问内容
type PostQuestionData struct {
	QuestionTitle string   `json:"questionTitle" binding:"required,max=200"`
	QuestionBody  string   `json:"questionBody" binding:"required"`
	QuestionTags  []string `json:"questionTags,omitempty" binding:"omitempty,max=5,dive,max=20"`
	UserPosted    string   `json:"userPosted,omitempty" binding:"omitempty,max=50"`
}

// AskQuestionRequest 提问请求
type AskQuestionRequest struct {
	PostQuestionData PostQuestionData `json:"postQuestionData"`
}

// VoteRequest 投票请求；UserID 可选，存在时必须与登录用户一致
type VoteRequest struct {
	AnswerID int64  `json:"answerId,omitempty"`
	Value    string `json:"value" binding:"required,oneof=upVote downVote"`
	UserID   *int64 `json:"userId,omitempty"`
}

// VoteResult 投票结果
type VoteResult struct {
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	UserVote   string `json:"user_vote"`
	RewardPaid *bool  `json:"reward_paid,omitempty"`
}

// PostAnswerRequest 回答请求
type PostAnswerRequest struct {
	AnswerBody   string `json:"answerBody" binding:"required"`
	UserAnswered string `json:"userAnswered,omitempty" binding:"omitempty,max=50"`
	UserID       *int64 `json:"userId,omitempty"`
}

// DeleteAnswerRequest 删除回答请求
type DeleteAnswerRequest struct {
	AnswerID int64 `json:"answerId" binding:"required"`
}
