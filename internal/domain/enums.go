package domain

type Role string

const (
	RoleViewer         Role = "viewer"
	RoleMember         Role = "member"
	RoleProjectManager Role = "project_manager"
	RoleAdmin          Role = "admin"
)

// ValidRoles is the canonical set of accepted global role strings.
var ValidRoles = map[Role]bool{
	RoleViewer: true, RoleMember: true, RoleProjectManager: true, RoleAdmin: true,
}

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectPlanning: true, ProjectActive: true, ProjectOnHold: true,
	ProjectCompleted: true, ProjectCancelled: true,
}

type MembershipRole string

const (
	MembershipMember         MembershipRole = "member"
	MembershipProjectManager MembershipRole = "project_manager"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

var ValidTaskStatuses = map[TaskStatus]bool{
	TaskTodo: true, TaskInProgress: true, TaskReview: true,
	TaskCompleted: true, TaskCancelled: true,
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var ValidTaskPriorities = map[TaskPriority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityUrgent: true,
}

type BudgetCategory string

const (
	CategoryMaterials BudgetCategory = "materials"
	CategoryLabor     BudgetCategory = "labor"
	CategoryEquipment BudgetCategory = "equipment"
	CategoryServices  BudgetCategory = "services"
	CategoryTravel    BudgetCategory = "travel"
	CategoryMarketing BudgetCategory = "marketing"
	CategoryOther     BudgetCategory = "other"
)

// BudgetCategories lists the closed set of budget categories in display order.
var BudgetCategories = []BudgetCategory{
	CategoryMaterials, CategoryLabor, CategoryEquipment, CategoryServices,
	CategoryTravel, CategoryMarketing, CategoryOther,
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Kind names a resource type the policy layer and aggregator understand.
type Kind string

const (
	KindProject     Kind = "project"
	KindTask        Kind = "task"
	KindBudget      Kind = "budget"
	KindTransaction Kind = "transaction"
)
