package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/model"
	"github.com/shared-tw/backend/internal/repository"
)

// AccountLogic 账号业务逻辑
type AccountLogic struct {
	store *repository.Store
}

// NewAccountLogic 创建账号业务逻辑
func NewAccountLogic(store *repository.Store) *AccountLogic {
	return &AccountLogic{store: store}
}

// RegisterOrganizationRequest 机构注册参数
type RegisterOrganizationRequest struct {
	Username           string
	Type               model.OrganizationType
	TypeOther          string
	Name               string
	City               model.City
	Address            string
	Phone              string
	OfficeHours        string
	OtherContactMethod model.ContactMethod
	OtherContact       string
}

// RegisterDonorRequest 捐赠者注册参数
type RegisterDonorRequest struct {
	Username           string
	Phone              string
	OtherContactMethod model.ContactMethod
	OtherContact       string
}

// RegisterOrganization 注册机构账号
func (l *AccountLogic) RegisterOrganization(ctx context.Context, req RegisterOrganizationRequest) (*model.User, error) {
	if err := l.validateUsername(ctx, req.Username); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown organization type %q", ErrInvalidArgument, req.Type)
	}
	if req.Type == model.OrganizationOther && strings.TrimSpace(req.TypeOther) == "" {
		return nil, fmt.Errorf("%w: type_other is required for other organizations", ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalidArgument)
	}
	if !req.City.Valid() {
		return nil, fmt.Errorf("%w: unknown city %q", ErrInvalidArgument, req.City)
	}
	if err := validateContact(req.OtherContactMethod, req.OtherContact); err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Organization: &model.Organization{
			Type:               req.Type,
			TypeOther:          req.TypeOther,
			Name:               strings.TrimSpace(req.Name),
			City:               req.City,
			Address:            req.Address,
			Phone:              req.Phone,
			OfficeHours:        req.OfficeHours,
			OtherContactMethod: contactOrDefault(req.OtherContactMethod),
			OtherContact:       req.OtherContact,
		},
	}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Registered organization %q (user %d) in %s", user.Organization.Name, user.Id, req.City.Label())
	return user, nil
}

// RegisterDonor 注册捐赠者账号
func (l *AccountLogic) RegisterDonor(ctx context.Context, req RegisterDonorRequest) (*model.User, error) {
	if err := l.validateUsername(ctx, req.Username); err != nil {
		return nil, err
	}
	if err := validateContact(req.OtherContactMethod, req.OtherContact); err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Donor: &model.Donor{
			Phone:              req.Phone,
			OtherContactMethod: contactOrDefault(req.OtherContactMethod),
			OtherContact:       req.OtherContact,
		},
	}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Registered donor user %d", user.Id)
	return user, nil
}

// ResolveUser 根据 id 获取用户及其资料
func (l *AccountLogic) ResolveUser(ctx context.Context, id int64) (*model.User, error) {
	return l.store.GetUser(ctx, id)
}

// validateUsername 用户名非空、不以下划线开头且未被占用
func (l *AccountLogic) validateUsername(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	if strings.HasPrefix(username, "_") {
		return fmt.Errorf("%w: username cannot start with _", ErrInvalidArgument)
	}
	if len(username) > 150 {
		return fmt.Errorf("%w: username is too long", ErrInvalidArgument)
	}
	taken, err := l.store.UsernameTaken(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: username %q is already taken", ErrInvalidArgument, username)
	}
	return nil
}

func validateContact(method model.ContactMethod, contact string) error {
	if !method.Valid() {
		return fmt.Errorf("%w: unknown contact method %q", ErrInvalidArgument, method)
	}
	if method != "" && method != model.ContactNotSet && strings.TrimSpace(contact) == "" {
		return fmt.Errorf("%w: other_contact is required for %s", ErrInvalidArgument, method)
	}
	return nil
}

func contactOrDefault(method model.ContactMethod) model.ContactMethod {
	if method == "" {
		return model.ContactNotSet
	}
	return method
}
