package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrSelfFriend     = errors.New("不能添加自己为好友")
	ErrAlreadyFriends = errors.New("你们已经是好友了")
)

type UserService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	friendRepo *repository.FriendshipRepository
	quota      *QuotaService
}

func NewUserService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	friendRepo *repository.FriendshipRepository,
	quota *QuotaService,
) *UserService {
	return &UserService{
		db:         db,
		userRepo:   userRepo,
		friendRepo: friendRepo,
		quota:      quota,
	}
}

// GetProfile 获取用户详情，附带当日额度
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	info := buildUserInfo(user)

	quota, err := s.quota.GetQuotaInfo(userID)
	if err != nil {
		return nil, err
	}
	info.Quota = quota
	info.FriendCount = quota.Friends

	return info, nil
}

// AddFriend 建立双向好友关系
func (s *UserService) AddFriend(userID, friendID int64) error {
	if userID == friendID {
		return ErrSelfFriend
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		for _, id := range []int64{userID, friendID} {
			exists, err := users.Exists(id)
			if err != nil {
				return err
			}
			if !exists {
				return ErrUserNotFound
			}
		}

		friends := s.friendRepo.WithTx(tx)
		already, err := friends.Exists(userID, friendID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyFriends
		}

		return friends.CreatePair(userID, friendID)
	})
}

// ListFriends 好友列表
func (s *UserService) ListFriends(userID int64, page, pageSize int) ([]*dto.FriendItem, int64, error) {
	friendships, total, err := s.friendRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.FriendItem, 0, len(friendships))
	for _, f := range friendships {
		if f.Friend == nil {
			continue
		}
		items = append(items, &dto.FriendItem{
			ID:       f.Friend.ID,
			Username: f.Friend.Username,
			Since:    f.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}

// List 用户目录，标记哪些已是 viewer 的好友
func (s *UserService) List(viewerID int64, page, pageSize int) ([]*dto.UserListItem, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	friendIDs, err := s.friendRepo.FriendIDs(viewerID)
	if err != nil {
		return nil, 0, err
	}
	friends := make(map[int64]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}

	items := make([]*dto.UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, &dto.UserListItem{
			ID:       u.ID,
			Username: u.Username,
			About:    u.About,
			Tags:     tagsOf(u.Tags),
			Points:   u.Points,
			IsFriend: friends[u.ID],
		})
	}
	return items, total, nil
}

// UpdateProfile 修改用户名、简介、标签
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	updates := make(map[string]interface{})
	if req.Username != nil {
		name := *req.Username
		if name != user.Username {
			taken, err := s.userRepo.ExistsByUsername(name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameExists
			}
			updates["username"] = name
		}
	}
	if req.About != nil {
		updates["about"] = strings.TrimSpace(*req.About)
	}
	if req.Tags != nil {
		updates["tags"] = model.StringArray(req.Tags)
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}

	return s.GetProfile(userID)
}

func tagsOf(tags model.StringArray) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:               user.ID,
		Username:         user.Username,
		About:            user.About,
		Tags:             tagsOf(user.Tags),
		Points:           user.Points,
		SubscriptionPlan: user.SubscriptionPlan,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}

	if user.Email != nil {
		info.Email = *user.Email
	}

	return info
}
