// Package user manages the User aggregate: the user row plus its owned
// role associations.
//
// The service layer guarantees two invariants before anything is persisted:
// the password field never holds plaintext, and the role set is resolved
// and attached in full. Lookups always return the role set eagerly loaded.
//
// # Basic Usage
//
//	repo := user.NewPostgresUserRepository(pool)
//	svc := user.NewUserService(repo, roleService, login.NewBcryptHasher())
//
//	created, err := svc.CreateUser(ctx, user.CreateUserParams{
//		FirstName: "Ada",
//		Username:  "ada",
//		Password:  "s3cret",
//		RoleIDs:   []int64{adminRoleID},
//	})
//
// A nil RoleIDs attaches the default role (the first role in id order).
// On update, an empty Password keeps the stored hash untouched.
//
// # Related Packages
//
//   - pkg/role - role management and resolution
//   - pkg/login - authentication bridge and password hashing
package user
