// Package campaign composes campaigns from an organization's groups, SMTP
// profiles, email templates and landing pages, and drives their lifecycle.
//
// Every reference is checked against the caller's organization before
// anything is written; all invalid references are reported together.
// Launching seeds one result row per target in the campaign's group. No mail
// is sent by this package.
package campaign
