package services

// Services defined in this package:
// - AuthService: login, token refresh and logout
// - UserService: admin-side account management
// - AdmissionService: enquiries and both admission paths
// - FeeService: fee ledgers, payments and the financial report
// - CatalogService: courses and subjects
// - AppointmentService: visitor appointment book
// - AuditService: read side of the audit log
// - SettingsService: institute-wide settings row
// - DashboardService: aggregate counts for the admin landing page
