package usecase

import (
	"context"
	"errors"
	"strings"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
	"tableorder/internal/validator"
)

type AdminAccountUsecase struct {
	tx     repo.TransactionManager
	hasher PasswordHasher
	clock  Clock
}

func NewAdminAccountUsecase(tx repo.TransactionManager, hasher PasswordHasher, clock Clock) *AdminAccountUsecase {
	return &AdminAccountUsecase{tx: tx, hasher: hasher, clock: clock}
}

type CreateAdminInput struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Role     model.AdminRole `json:"role"`
	StoreID  *string         `json:"store_id"`
}

// 管理者作成（スーパー管理者のみ）
func (u *AdminAccountUsecase) Create(ctx context.Context, actorID int64, in CreateAdminInput) (model.Admin, error) {
	if err := validator.ValidateAdminAccount(in.Username, in.Password); err != nil {
		return model.Admin{}, ErrInvalidInput
	}
	username := strings.TrimSpace(in.Username)

	role := in.Role
	if role == "" {
		role = model.AdminRoleStore
	}
	if !role.IsValid() {
		return model.Admin{}, ErrInvalidInput
	}

	var storeID *string
	if in.StoreID != nil && strings.TrimSpace(*in.StoreID) != "" {
		s := strings.TrimSpace(*in.StoreID)
		storeID = &s
	}
	//store_adminは店舗必須、super_adminは店舗なし
	if role == model.AdminRoleStore && storeID == nil {
		return model.Admin{}, ErrStoreIDRequired
	}
	if role == model.AdminRoleSuper && storeID != nil {
		return model.Admin{}, ErrInvalidInput
	}
	if storeID != nil {
		if err := validator.ValidateStoreID(*storeID); err != nil {
			return model.Admin{}, ErrInvalidInput
		}
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.Admin{}, ErrInternal
	}

	var out model.Admin

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if storeID != nil {
			ok, err := r.Stores().Exists(ctx, *storeID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStoreNotFound
			}
		}

		created, err := r.Admins().Create(ctx, model.Admin{
			StoreID:      storeID,
			Username:     username,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrUsernameTaken
		}
		if err != nil {
			return err
		}

		//監査ログ（CREATE_ADMIN）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actorID,
			Action:       model.AuditActionCreateAdmin,
			ResourceType: model.AuditResourceAdmin,
			ResourceID:   created.ID,
			BeforeJSON:   "{}",
			AfterJSON:    toJSON(created),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return err
		}

		out = created
		return nil
	})
	if err != nil {
		return model.Admin{}, wrapTxErr(err, ErrInternal)
	}
	return out, nil
}

// 管理者一覧（新しい順）
func (u *AdminAccountUsecase) List(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		admins, err = r.Admins().List(ctx)
		return err
	})
	if err != nil {
		return []model.Admin{}, ErrInternal
	}
	return admins, nil
}

func (u *AdminAccountUsecase) Activate(ctx context.Context, actorID int64, adminID int64) (model.Admin, error) {
	return u.setActive(ctx, actorID, adminID, true)
}

// 自分自身は無効化できない
func (u *AdminAccountUsecase) Deactivate(ctx context.Context, actorID int64, adminID int64) (model.Admin, error) {
	if actorID == adminID {
		return model.Admin{}, ErrForbidden
	}
	return u.setActive(ctx, actorID, adminID, false)
}

func (u *AdminAccountUsecase) setActive(ctx context.Context, actorID int64, adminID int64, active bool) (model.Admin, error) {
	var out model.Admin

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		a, err := r.Admins().FindByID(ctx, adminID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAdminNotFound
		}
		if err != nil {
			return err
		}

		before := a
		if err := r.Admins().SetActive(ctx, adminID, active); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrAdminNotFound
			}
			return err
		}
		a.IsActive = active

		action := model.AuditActionDeactivateAdmin
		if active {
			action = model.AuditActionActivateAdmin
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actorID,
			Action:       action,
			ResourceType: model.AuditResourceAdmin,
			ResourceID:   adminID,
			BeforeJSON:   toJSON(map[string]any{"is_active": before.IsActive}),
			AfterJSON:    toJSON(map[string]any{"is_active": active}),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return err
		}

		out = a
		return nil
	})
	if err != nil {
		return model.Admin{}, wrapTxErr(err, ErrInternal)
	}
	return out, nil
}
