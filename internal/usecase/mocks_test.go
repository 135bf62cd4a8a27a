package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

// Mock repositories shared by the service tests.

type userRepoMock struct {
	users     map[string]domain.User
	createErr error
	updateErr error
	deleteErr error
	deleted   []string
}

func newUserRepoMock(users ...domain.User) *userRepoMock {
	m := &userRepoMock{users: make(map[string]domain.User)}
	for _, user := range users {
		m.users[user.ID] = user
	}
	return m
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) List(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *userRepoMock) ListByRole(_ context.Context, roleName string) ([]domain.User, error) {
	var users []domain.User
	for _, user := range m.users {
		if strings.EqualFold(user.RoleName, roleName) {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *userRepoMock) Update(_ context.Context, user domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) UpdateStatus(_ context.Context, id string, status domain.UserStatus) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Status = status
	m.users[id] = user
	return nil
}

func (m *userRepoMock) ReplaceRefreshToken(_ context.Context, id string, token *string, expiresAt *time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.RefreshToken = token
	user.RefreshTokenExpiresAt = expiresAt
	m.users[id] = user
	return nil
}

func (m *userRepoMock) ReassignRole(_ context.Context, userID, roleID, roleName string) error {
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.RoleID = roleID
	user.RoleName = roleName
	m.users[userID] = user
	return nil
}

func (m *userRepoMock) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	m.users[id] = user
	return nil
}

func (m *userRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type roleRepoMock struct {
	roles  map[string]domain.Role
	grants map[string]map[string]bool
}

func newRoleRepoMock(roles ...domain.Role) *roleRepoMock {
	m := &roleRepoMock{roles: make(map[string]domain.Role), grants: make(map[string]map[string]bool)}
	for _, role := range roles {
		m.roles[role.ID] = role
	}
	return m
}

func (m *roleRepoMock) Create(_ context.Context, role domain.Role) error {
	for _, existing := range m.roles {
		if strings.EqualFold(existing.Name, role.Name) {
			return repository.ErrDuplicate
		}
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range m.roles {
		if strings.EqualFold(role.Name, name) {
			found := role
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) List(_ context.Context) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (m *roleRepoMock) Update(_ context.Context, role domain.Role) error {
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.roles, id)
	delete(m.grants, id)
	return nil
}

func (m *roleRepoMock) AttachPermission(_ context.Context, roleID, permissionID string) error {
	if m.grants[roleID] == nil {
		m.grants[roleID] = make(map[string]bool)
	}
	if m.grants[roleID][permissionID] {
		return repository.ErrDuplicate
	}
	m.grants[roleID][permissionID] = true
	return nil
}

func (m *roleRepoMock) DetachPermission(_ context.Context, roleID, permissionID string) error {
	if !m.grants[roleID][permissionID] {
		return repository.ErrNotFound
	}
	delete(m.grants[roleID], permissionID)
	return nil
}

func (m *roleRepoMock) HasPermission(_ context.Context, roleID, permissionID string) (bool, error) {
	return m.grants[roleID][permissionID], nil
}

type permissionRepoMock struct {
	permissions map[string]domain.Permission
	roleGrants  *roleRepoMock
}

func newPermissionRepoMock(grants *roleRepoMock, permissions ...domain.Permission) *permissionRepoMock {
	m := &permissionRepoMock{permissions: make(map[string]domain.Permission), roleGrants: grants}
	for _, permission := range permissions {
		m.permissions[permission.ID] = permission
	}
	return m
}

func (m *permissionRepoMock) Create(_ context.Context, permission domain.Permission) error {
	for _, existing := range m.permissions {
		if strings.EqualFold(existing.Task, permission.Task) {
			return repository.ErrDuplicate
		}
	}
	m.permissions[permission.ID] = permission
	return nil
}

func (m *permissionRepoMock) GetByID(_ context.Context, id string) (*domain.Permission, error) {
	if permission, ok := m.permissions[id]; ok {
		return &permission, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) GetByTask(_ context.Context, task string) (*domain.Permission, error) {
	for _, permission := range m.permissions {
		if strings.EqualFold(permission.Task, task) {
			found := permission
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) List(_ context.Context) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		permissions = append(permissions, permission)
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i].Task < permissions[j].Task })
	return permissions, nil
}

func (m *permissionRepoMock) ListByRole(_ context.Context, roleID string) ([]domain.Permission, error) {
	var permissions []domain.Permission
	if m.roleGrants == nil {
		return permissions, nil
	}
	for permissionID := range m.roleGrants.grants[roleID] {
		if permission, ok := m.permissions[permissionID]; ok {
			permissions = append(permissions, permission)
		}
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i].Task < permissions[j].Task })
	return permissions, nil
}

func (m *permissionRepoMock) Update(_ context.Context, permission domain.Permission) error {
	if _, ok := m.permissions[permission.ID]; !ok {
		return repository.ErrNotFound
	}
	m.permissions[permission.ID] = permission
	return nil
}

func (m *permissionRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.permissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.permissions, id)
	return nil
}

type auditRepoMock struct {
	activities    []domain.UserActivity
	loginAttempts []domain.LoginAttempt
	roleActivity  []domain.RoleActivity
	logErr        error
}

func (m *auditRepoMock) LogActivity(_ context.Context, entry domain.UserActivity) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.activities = append(m.activities, entry)
	return nil
}

func (m *auditRepoMock) LogLoginAttempt(_ context.Context, entry domain.LoginAttempt) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.loginAttempts = append(m.loginAttempts, entry)
	return nil
}

func (m *auditRepoMock) LogRoleActivity(_ context.Context, entry domain.RoleActivity) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.roleActivity = append(m.roleActivity, entry)
	return nil
}

func (m *auditRepoMock) ListActivityByUser(_ context.Context, userID string, _ int) ([]domain.UserActivity, error) {
	var entries []domain.UserActivity
	for _, entry := range m.activities {
		if entry.UserID != nil && *entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *auditRepoMock) ListLoginAttemptsByUser(_ context.Context, userID string, _ int) ([]domain.LoginAttempt, error) {
	var entries []domain.LoginAttempt
	for _, entry := range m.loginAttempts {
		if entry.UserID != nil && *entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *auditRepoMock) ListActivityByRole(_ context.Context, roleID string, _ int) ([]domain.RoleActivity, error) {
	var entries []domain.RoleActivity
	for _, entry := range m.roleActivity {
		if entry.RoleID == roleID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type publisherMock struct {
	added   []domain.UserAddedEvent
	updated []domain.UserUpdatedEvent
	err     error
}

func (m *publisherMock) PublishUserAdded(_ context.Context, event domain.UserAddedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, event)
	return nil
}

func (m *publisherMock) PublishUserUpdated(_ context.Context, event domain.UserUpdatedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, event)
	return nil
}

type mailerMock struct {
	sent []string
	err  error
}

func (m *mailerMock) Send(_ context.Context, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

// plainHasher avoids argon2 cost in service tests; credential tests cover
// the real hasher.
type plainHasher struct{}

func (plainHasher) Algorithm() string { return "plain" }

func (plainHasher) Hash(password string) (string, error) { return "plain$" + password, nil }

func (plainHasher) Verify(password, encoded string) (bool, error) {
	return encoded == "plain$"+password, nil
}

type addressRepoMock struct {
	addresses map[string]domain.Address
	order     []string
}

func newAddressRepoMock() *addressRepoMock {
	return &addressRepoMock{addresses: make(map[string]domain.Address)}
}

func (m *addressRepoMock) Create(_ context.Context, address domain.Address) error {
	m.addresses[address.ID] = address
	m.order = append(m.order, address.ID)
	return nil
}

func (m *addressRepoMock) GetByID(_ context.Context, userID, addressID string) (*domain.Address, error) {
	address, ok := m.addresses[addressID]
	if !ok || address.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &address, nil
}

func (m *addressRepoMock) ListByUser(_ context.Context, userID string) ([]domain.Address, error) {
	var addresses []domain.Address
	for _, id := range m.order {
		if address, ok := m.addresses[id]; ok && address.UserID == userID {
			addresses = append(addresses, address)
		}
	}
	return addresses, nil
}

func (m *addressRepoMock) Update(_ context.Context, address domain.Address) error {
	existing, ok := m.addresses[address.ID]
	if !ok || existing.UserID != address.UserID {
		return repository.ErrNotFound
	}
	address.IsDefault = existing.IsDefault
	m.addresses[address.ID] = address
	return nil
}

func (m *addressRepoMock) Delete(_ context.Context, userID, addressID string) error {
	address, ok := m.addresses[addressID]
	if !ok || address.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.addresses, addressID)
	return nil
}

func (m *addressRepoMock) SetDefault(_ context.Context, userID, addressID string) error {
	if _, ok := m.addresses[addressID]; !ok {
		return repository.ErrNotFound
	}
	for id, address := range m.addresses {
		if address.UserID != userID {
			continue
		}
		address.IsDefault = id == addressID
		m.addresses[id] = address
	}
	return nil
}

type phoneRepoMock struct {
	phones map[string]domain.Phone
	order  []string
}

func newPhoneRepoMock() *phoneRepoMock {
	return &phoneRepoMock{phones: make(map[string]domain.Phone)}
}

func (m *phoneRepoMock) Create(_ context.Context, phone domain.Phone) error {
	m.phones[phone.ID] = phone
	m.order = append(m.order, phone.ID)
	return nil
}

func (m *phoneRepoMock) GetByID(_ context.Context, userID, phoneID string) (*domain.Phone, error) {
	phone, ok := m.phones[phoneID]
	if !ok || phone.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &phone, nil
}

func (m *phoneRepoMock) ListByUser(_ context.Context, userID string) ([]domain.Phone, error) {
	var phones []domain.Phone
	for _, id := range m.order {
		if phone, ok := m.phones[id]; ok && phone.UserID == userID {
			phones = append(phones, phone)
		}
	}
	return phones, nil
}

func (m *phoneRepoMock) Update(_ context.Context, phone domain.Phone) error {
	existing, ok := m.phones[phone.ID]
	if !ok || existing.UserID != phone.UserID {
		return repository.ErrNotFound
	}
	phone.IsDefault = existing.IsDefault
	m.phones[phone.ID] = phone
	return nil
}

func (m *phoneRepoMock) Delete(_ context.Context, userID, phoneID string) error {
	phone, ok := m.phones[phoneID]
	if !ok || phone.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.phones, phoneID)
	return nil
}

func (m *phoneRepoMock) SetDefault(_ context.Context, userID, phoneID string) error {
	if _, ok := m.phones[phoneID]; !ok {
		return repository.ErrNotFound
	}
	for id, phone := range m.phones {
		if phone.UserID != userID {
			continue
		}
		phone.IsDefault = id == phoneID
		m.phones[id] = phone
	}
	return nil
}
