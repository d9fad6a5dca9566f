package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
//
// role:user 覆盖登录用户可达的购物车与订单路由；role:admin 继承
// role:user 并追加商品写操作、订单状态管理与后台视图。商品读路由
// 是公开的，不经过 RBAC。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "user",
			Policies: []Policy{
				{Object: "/cart", Action: "GET"},
				{Object: "/cart/add", Action: "POST"},
				{Object: "/cart/update/:product_id", Action: "PUT"},
				{Object: "/cart/remove/:product_id", Action: "DELETE"},
				{Object: "/cart/clear", Action: "DELETE"},
				{Object: "/orders", Action: "GET"},
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/auth/me", Action: "GET"},
				{Object: "/auth/password", Action: "PUT"},
			},
		},
		{
			Role:     "admin",
			Inherits: []string{"user"},
			Policies: []Policy{
				{Object: "/products", Action: "POST"},
				{Object: "/products/:id", Action: "PUT"},
				{Object: "/products/:id", Action: "DELETE"},
				{Object: "/orders/:id/status", Action: "PUT"},
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return nil
}
