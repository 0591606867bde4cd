package oauth

import "strings"

// Scope is a platform OAuth2 scope.
type Scope string

const (
	ScopeActivitiesRead                        Scope = "activities.read"
	ScopeActivitiesWrite                       Scope = "activities.write"
	ScopeApplicationsBuildsRead                Scope = "applications.builds.read"
	ScopeApplicationsBuildsUpload              Scope = "applications.builds.upload"
	ScopeApplicationsCommands                  Scope = "applications.commands"
	ScopeApplicationsCommandsUpdate            Scope = "applications.commands.update"
	ScopeApplicationsCommandsPermissionsUpdate Scope = "applications.commands.permissions.update"
	ScopeApplicationsEntitlements              Scope = "applications.entitlements"
	ScopeApplicationsStoreUpdate               Scope = "applications.store.update"
	ScopeConnections                           Scope = "connections"
	ScopeDMChannelsRead                        Scope = "dm_channels.read"
	ScopeGDMJoin                               Scope = "gdm.join"
	ScopeGuilds                                Scope = "guilds"
	ScopeGuildsJoin                            Scope = "guilds.join"
	ScopeGuildsMembersRead                     Scope = "guilds.members.read"
	ScopeIdentify                              Scope = "identify"
	ScopeMessagesRead                          Scope = "messages.read"
	ScopeRelationshipsRead                     Scope = "relationships.read"
	ScopeRoleConnectionsWrite                  Scope = "role_connections.write"
	ScopeRPC                                   Scope = "rpc"
	ScopeRPCActivitiesWrite                    Scope = "rpc.activities.write"
	ScopeRPCNotificationsRead                  Scope = "rpc.notifications.read"
	ScopeRPCVoiceRead                          Scope = "rpc.voice.read"
	ScopeRPCVoiceWrite                         Scope = "rpc.voice.write"
	ScopeVoice                                 Scope = "voice"
	ScopeWebhookIncoming                       Scope = "webhook.incoming"
)

// DefaultScopes lets the application write role connections and identify the
// user.
func DefaultScopes() []Scope {
	return []Scope{ScopeRoleConnectionsWrite, ScopeIdentify}
}

// JoinScopes renders scopes space separated, dropping duplicates and empty
// entries while keeping first-seen order.
func JoinScopes(scopes []Scope) string {
	seen := make(map[Scope]struct{}, len(scopes))
	parts := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		if scope == "" {
			continue
		}
		if _, ok := seen[scope]; ok {
			continue
		}
		seen[scope] = struct{}{}
		parts = append(parts, string(scope))
	}
	return strings.Join(parts, " ")
}

// ParseScopes splits a space or comma separated list.
func ParseScopes(raw string) []Scope {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ' ' || r == ',' })
	scopes := make([]Scope, 0, len(fields))
	for _, field := range fields {
		scopes = append(scopes, Scope(field))
	}
	return scopes
}
