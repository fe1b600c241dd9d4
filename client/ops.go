package client

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"letitbit/internal/rpc"
)

// Account and file management operations
var (
	keyInfoEndpoint          = newEndpoint[KeyInfo]("key", "info")
	keyAuthEndpoint          = newEndpoint[string]("key", "auth")
	listControllersEndpoint  = newEndpoint[[]string]("list", "controllers")
	listMethodsEndpoint      = newEndpoint[map[string]MethodInfo]("list", "methods")
	ftpFlagAutoEndpoint      = newEndpoint[json.RawMessage]("ftp", "flag_auto")
	directLinksEndpoint      = newEndpoint[[]string]("download", "direct_links")
	checkLinkEndpoint        = newEndpoint[bool]("download", "check_link")
	fileInfoEndpoint         = newEndpoint[Object]("download", "info")
	fileListingEndpoint      = newEndpoint[Objects]("filemanager", "listing")
	foldersEndpoint          = newEndpoint[Objects]("filemanager", "folders")
	aliasesEndpoint          = newEndpoint[Object]("filemanager", "aliases")
	vipAliasesEndpoint       = newEndpoint[Object]("filemanager", "vipaliases")
	deleteEndpoint           = newEndpoint[int]("filemanager", "delete")
	renameEndpoint           = newEndpoint[bool]("filemanager", "rename")
	userAliasesEndpoint      = newEndpoint[Object]("user", "aliases")
	userAliasesLoginEndpoint = newEndpoint[string]("user", "aliases_login")
	userInfoEndpoint         = newEndpoint[Object]("user", "info")
	registerEndpoint         = newEndpoint[Object]("user", "register")
	assumeEndpoint           = newEndpoint[json.RawMessage]("user", "assume")
	skymonkLinkEndpoint      = newEndpoint[string]("preview", "skymonk_link")
	flvImageEndpoint         = newEndpoint[string]("preview", "flv_image")
)

// KeyInfo fetches usage statistics of the API key and stores them on the client
func (c *Client) KeyInfo(ctx context.Context) (KeyInfo, error) {
	info, err := keyInfoEndpoint.call(ctx, c, nil)
	if err != nil {
		return KeyInfo{}, err
	}

	c.stateMu.Lock()
	c.keyInfo = &info
	c.stateMu.Unlock()

	return info, nil
}

// KeyAuth returns the key that grants access to a project for a user account
func (c *Client) KeyAuth(ctx context.Context, login, password, project string) (string, error) {
	return keyAuthEndpoint.call(ctx, c, Credentials{
		Login:    login,
		Password: PasswordHash(password),
		Project:  c.projectOr(project),
	}.params())
}

// PasswordHash returns the hex md5 of the hex md5 of password, as key/auth expects
func PasswordHash(password string) string {
	first := md5.Sum([]byte(password))
	second := md5.Sum([]byte(hex.EncodeToString(first[:])))
	return hex.EncodeToString(second[:])
}

// ListControllers returns the names of the available API controllers
func (c *Client) ListControllers(ctx context.Context) ([]string, error) {
	return listControllersEndpoint.call(ctx, c, nil)
}

// ListMethods returns the methods of a controller
func (c *Client) ListMethods(ctx context.Context, controller string) (map[string]MethodInfo, error) {
	return listMethodsEndpoint.call(ctx, c, rpc.Params{"controller": controller})
}

// AllMethods returns the methods of every controller
func (c *Client) AllMethods(ctx context.Context) (map[string]map[string]MethodInfo, error) {
	controllers, err := c.ListControllers(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]map[string]MethodInfo, len(controllers))
	for _, controller := range controllers {
		methods, err := c.ListMethods(ctx, controller)
		if err != nil {
			return nil, err
		}
		result[controller] = methods
	}
	return result, nil
}

// SetFTPAutoFlag toggles automatic processing of files uploaded over FTP
func (c *Client) SetFTPAutoFlag(ctx context.Context, enabled bool) error {
	flag := 0
	if enabled {
		flag = 1
	}
	return ftpFlagAutoEndpoint.exec(ctx, c, rpc.Params{"flag": flag})
}

// DirectLinks returns direct download links of a file
func (c *Client) DirectLinks(ctx context.Context, link, password string) ([]string, error) {
	return directLinksEndpoint.call(ctx, c, rpc.Params{"link": link, "pass": password})
}

// CheckLink reports whether the file behind link is present on at least one server
func (c *Client) CheckLink(ctx context.Context, link string) (bool, error) {
	return checkLinkEndpoint.truth(ctx, c, rpc.Params{"link": link})
}

// FileInfo returns details of a file such as its size and uid
func (c *Client) FileInfo(ctx context.Context, link string) (Object, error) {
	return fileInfoEndpoint.call(ctx, c, rpc.Params{"link": link})
}

// FileListing returns one page of files of a file manager folder
func (c *Client) FileListing(ctx context.Context, opts ListingOptions) (Objects, error) {
	return fileListingEndpoint.call(ctx, c, opts.params())
}

// Folders returns the file manager folders
func (c *Client) Folders(ctx context.Context) (Objects, error) {
	return foldersEndpoint.call(ctx, c, nil)
}

// Aliases returns the uids of files in other projects. files maps md5 hashes to sizes.
func (c *Client) Aliases(ctx context.Context, files map[string]int64) (Object, error) {
	return aliasesEndpoint.call(ctx, c, rpc.Params{"files": files})
}

// VipAliases returns the vip-file.com aliases of files. files maps md5 hashes to sizes.
func (c *Client) VipAliases(ctx context.Context, files map[string]int64) (Object, error) {
	return vipAliasesEndpoint.call(ctx, c, rpc.Params{"files": files})
}

// Delete removes files and returns the number of files removed
func (c *Client) Delete(ctx context.Context, uids ...string) (int, error) {
	return deleteEndpoint.call(ctx, c, rpc.Params{"uids": uids})
}

// Rename renames a file
func (c *Client) Rename(ctx context.Context, uid, name string) (bool, error) {
	return renameEndpoint.truth(ctx, c, rpc.Params{"uid": uid, "name": name})
}

// UserAliases returns the current user's id in every project
func (c *Client) UserAliases(ctx context.Context) (Object, error) {
	return userAliasesEndpoint.call(ctx, c, nil)
}

// UserAliasesLogin returns the current user's login in a project
func (c *Client) UserAliasesLogin(ctx context.Context, project string) (string, error) {
	return userAliasesLoginEndpoint.call(ctx, c, rpc.Params{"project": c.projectOr(project)})
}

// UserInfo returns account details. With nil credentials the key owner is described.
func (c *Client) UserInfo(ctx context.Context, creds *Credentials) (Object, error) {
	if creds == nil || creds.Login == "" || creds.Password == "" {
		return userInfoEndpoint.call(ctx, c, nil)
	}
	return userInfoEndpoint.call(ctx, c, c.withProject(*creds).params())
}

// RegisterUser creates an account in a project
func (c *Client) RegisterUser(ctx context.Context, creds Credentials) (Object, error) {
	return registerEndpoint.call(ctx, c, c.withProject(creds).params())
}

// AssumeUser switches the user the key acts for
func (c *Client) AssumeUser(ctx context.Context, creds Credentials) error {
	return assumeEndpoint.exec(ctx, c, c.withProject(creds).params())
}

// SkymonkLink returns the skymonk installer link for a file
func (c *Client) SkymonkLink(ctx context.Context, uid string) (string, error) {
	return skymonkLinkEndpoint.call(ctx, c, rpc.Params{"uid": uid})
}

// FLVImage returns the preview image link of a video file
func (c *Client) FLVImage(ctx context.Context, uid string) (string, error) {
	return flvImageEndpoint.call(ctx, c, rpc.Params{"uid": uid})
}

func (c *Client) projectOr(project string) string {
	if project == "" {
		return c.project
	}
	return project
}

func (c *Client) withProject(creds Credentials) Credentials {
	creds.Project = c.projectOr(creds.Project)
	return creds
}
